package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/tutor-scheduler/internal/config"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

const ContextPrincipal = "principal"

// IssueToken signs an HS256 token carrying the user id and role.
func IssueToken(secret string, ttl time.Duration, u *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Not authorized, no token")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Not authorized, malformed token")
			return
		}

		token, err := jwt.Parse(
			parts[1],
			func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		)
		if err != nil || !token.Valid {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Not authorized, token failed")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_claims", "Not authorized, token failed")
			return
		}

		userID, ok := claims["sub"].(float64)
		role, _ := claims["role"].(string)
		if !ok || userID <= 0 {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Not authorized, token failed")
			return
		}

		p, err := session.FromClaims(uint(userID), role)
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Not authorized, token failed")
			return
		}

		c.Set(ContextPrincipal, p)
		c.Next()
	}
}

// Principal returns the caller set by AuthMiddleware, or nil.
func Principal(c *gin.Context) session.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(session.Principal)
	return p
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsAdmin(Principal(c)) {
			httperr.Abort(c, http.StatusForbidden, "admin_only", "Admin access required")
			return
		}
		c.Next()
	}
}
