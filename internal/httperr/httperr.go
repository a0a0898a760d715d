package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond renders err. Business errors keep their code and message; anything
// else is attached to the context for logging and hidden behind a 500.
func Respond(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		msg := be.Message
		if msg == "" {
			msg = be.Code
		}
		Write(c, be.Kind.Status(), be.Code, msg)
		return
	}

	_ = c.Error(err)
	Internal(c, "internal_error", "Server error")
}
