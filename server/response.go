package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/authd/errors"
)

// MessageResponse is the body for operations that report only an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is the body for login and logout.
type TokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// RespondWithError inspects err: if it is an *apperrors.AppError the status
// and body are derived from it; otherwise a generic 500 is sent. Causes and
// internal reasons never reach the client.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

// RespondMessage sends a 200 response with a message body.
func RespondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// RespondToken sends a 200 response with a token and message.
func RespondToken(c *gin.Context, token, message string) {
	c.JSON(http.StatusOK, TokenResponse{Token: token, Message: message})
}
