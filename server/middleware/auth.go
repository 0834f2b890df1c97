package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authd/auth/authctx"
)

// Authorization scheme prefixes.
const (
	schemeBearer = "Bearer"
	schemeBasic  = "Basic"
)

// AuthConfig configures the request-authentication middleware. The two
// functions are independent strategies over the same identity model: the
// request's Authorization header decides which one runs.
type AuthConfig struct {
	// Validator validates a bearer token string and returns the identity.
	Validator func(token string) (any, error)

	// Authenticator verifies per-request Basic credentials and returns the
	// identity. Re-run on every request; nothing is cached.
	Authenticator func(c *gin.Context, username, password string) (any, error)

	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// Auth returns a Gin middleware that authenticates each request with
// whichever scheme its Authorization header carries. The resolved identity
// is stored in the request context via authctx.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthenticated(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 {
			abortUnauthenticated(c, "Invalid authorization header format")
			return
		}

		var identity any
		var err error
		switch parts[0] {
		case schemeBearer:
			if cfg.Validator == nil {
				abortUnauthenticated(c, "Unsupported authorization scheme")
				return
			}
			identity, err = cfg.Validator(parts[1])
		case schemeBasic:
			if cfg.Authenticator == nil {
				abortUnauthenticated(c, "Unsupported authorization scheme")
				return
			}
			var username, pw string
			username, pw, err = decodeBasic(parts[1])
			if err == nil {
				identity, err = cfg.Authenticator(c, username, pw)
			}
		default:
			abortUnauthenticated(c, "Unsupported authorization scheme")
			return
		}

		if err != nil {
			abortUnauthenticated(c, "Invalid credentials")
			return
		}

		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), identity))
		c.Next()
	}
}

// BearerAuth returns a middleware accepting only the bearer-token scheme.
func BearerAuth(validator func(token string) (any, error)) gin.HandlerFunc {
	return Auth(AuthConfig{Validator: validator})
}

// BasicAuth returns a middleware accepting only per-request credentials.
func BasicAuth(authenticator func(c *gin.Context, username, password string) (any, error)) gin.HandlerFunc {
	return Auth(AuthConfig{Authenticator: authenticator})
}

func decodeBasic(encoded string) (string, string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", err
	}
	username, pw, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", base64.CorruptInputError(0)
	}
	return username, pw, nil
}

func abortUnauthenticated(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": reason,
	})
}
