package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prohmpiriya/webtail-stripe/pkg/response"
)

const (
	// ContextKeySubject holds the authenticated admin's subject claim
	ContextKeySubject = "subject"
	// ContextKeyRole holds the authenticated admin's role claim
	ContextKeyRole = "role"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// AdminAuthConfig configures the admin bearer-token check
type AdminAuthConfig struct {
	Secret string
	Issuer string
	// Role required in the "role" claim; empty accepts any role
	Role string
}

// AdminClaims are the claims the host signs into admin tokens
type AdminClaims struct {
	Subject string
	Role    string
}

// ParseAdminToken validates an HS256 token and extracts its claims
func ParseAdminToken(tokenString string, cfg *AdminAuthConfig) (*AdminClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims.GetSubject()
	role, _ := claims["role"].(string)
	return &AdminClaims{Subject: sub, Role: role}, nil
}

// AdminAuth guards the configuration endpoints with a host-issued JWT
func AdminAuth(cfg *AdminAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Body("MISSING_TOKEN", "Authorization header is required"))
			return
		}

		claims, err := ParseAdminToken(tokenString, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Body("INVALID_TOKEN", "Invalid or expired token"))
			return
		}

		if cfg.Role != "" && claims.Role != cfg.Role {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Body("FORBIDDEN", "Access denied"))
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

// GetSubject returns the authenticated subject, if any
func GetSubject(c *gin.Context) (string, bool) {
	sub := c.GetString(ContextKeySubject)
	return sub, sub != ""
}
