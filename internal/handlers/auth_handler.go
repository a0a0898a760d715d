package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	"github.com/BruksfildServices01/tutor-scheduler/internal/config"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tutor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/validators"
)

type AuthHandler struct {
	db          *gorm.DB
	config      *config.Config
	audit       *audit.Dispatcher
	logger      *zap.Logger
	emailDomain validators.EmailDomainCheck
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, audit *audit.Dispatcher, logger *zap.Logger) *AuthHandler {
	check := validators.EmailDomainCheck(validators.IsEmailDomainValid)
	if cfg.SkipEmailDomainCheck {
		check = validators.AnyEmailDomain
	}
	return &AuthHandler{db: db, config: cfg, audit: audit, logger: logger, emailDomain: check}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=student tutor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.emailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The e-mail domain does not look valid")
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if count > 0 {
		httperr.Write(c, http.StatusConflict, "email_taken", "User already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Write(c, http.StatusConflict, "email_taken", "User already exists")
			return
		}
		httperr.Respond(c, err)
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, h.config.JWTExpiry, &user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]string{"role": user.Role},
	})
	h.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", user.Role))

	httpresp.Created(c, authResponse{User: &user, Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password")
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, h.config.JWTExpiry, &user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, authResponse{User: &user, Token: token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Subjects").
		Preload("Availability").
		First(&user, p.UserID()).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "user_not_found", "Not authorized, user not found")
			return
		}
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, &user)
}

// Logout exists for client symmetry. Tokens are stateless and simply
// dropped by the client.
func (h *AuthHandler) Logout(c *gin.Context) {
	httpresp.Message(c, "Logged out")
}
