package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authd/auth"
	"github.com/kbukum/authd/auth/authctx"
	apperrors "github.com/kbukum/authd/errors"
	"github.com/kbukum/authd/server/middleware"
	"github.com/kbukum/authd/validation"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler creates the handler for the /auth routes.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterRoutes mounts the public auth endpoints and the protected API
// group. Protected routes accept either scheme: a bearer token or
// per-request Basic credentials.
func (h *AuthHandler) RegisterRoutes(engine *gin.Engine) {
	authGroup := engine.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.POST("/authenticate", h.Authenticate)
	}

	api := engine.Group("/api")
	api.Use(middleware.Auth(middleware.AuthConfig{
		Validator: func(token string) (any, error) {
			return h.svc.ValidateToken(token)
		},
		Authenticator: func(c *gin.Context, username, pw string) (any, error) {
			return h.svc.Authenticate(c.Request.Context(), username, pw)
		},
	}))
	{
		api.GET("/profile", h.Profile)
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: auth.MsgRegistrationFailed})
		return
	}
	if err := validation.Validate(req, auth.MsgRegistrationFailed); err != nil {
		RespondWithError(c, err)
		return
	}

	err := h.svc.Register(c.Request.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondMessage(c, auth.MsgRegistrationSuccess)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: auth.MsgLoginFailed})
		return
	}
	if err := validation.Validate(req, auth.MsgLoginFailed); err != nil {
		// Shape failures get the same generic body as bad credentials.
		c.JSON(http.StatusBadRequest, MessageResponse{Message: auth.MsgLoginFailed})
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondToken(c, token, auth.MsgLoginSuccess)
}

// Logout handles POST /auth/logout. Deliberately a no-op on the server:
// tokens stay valid until their embedded expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	RespondToken(c, "", auth.MsgLoggedOut)
}

// Authenticate handles POST /auth/authenticate — the per-request credential
// scheme's entry point. Credentials are re-verified on every call and no
// token is issued.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: auth.MsgBadCredentials})
		return
	}
	if err := validation.Validate(req, auth.MsgBadCredentials); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: auth.MsgBadCredentials})
		return
	}

	identity, err := h.svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, identity)
}

// Profile returns the identity attached by the auth middleware.
func (h *AuthHandler) Profile(c *gin.Context) {
	identity, err := authctx.GetOrError[*auth.Identity](c.Request.Context())
	if err != nil {
		RespondWithError(c, apperrors.Unauthorized(""))
		return
	}
	c.JSON(http.StatusOK, identity)
}
