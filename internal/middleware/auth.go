package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"roadmap-service/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID      = "userID"
	ContextUsername    = "username"
	ContextPermissions = "permissions"

	AdminPermission = "admin"
)

type Claims struct {
	jwt.RegisteredClaims
	Id          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

func verifyToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Auth resolves the caller identity. Requests arriving through the
// gateway carry X-User-ID and X-User-Permissions headers; direct
// callers may present a bearer token instead.
func Auth() gin.HandlerFunc {
	secret := []byte(config.ServiceConfig.Auth.JWTSecret)
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			permissions := splitPermissions(c.GetHeader("X-User-Permissions"))
			if role := c.GetHeader("X-User-Role"); role != "" {
				permissions = append(permissions, role)
			}
			c.Set(ContextUserID, userID)
			c.Set(ContextUsername, c.GetHeader("X-Username"))
			c.Set(ContextPermissions, permissions)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
			c.Abort()
			return
		}
		claims, err := verifyToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.Id)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextPermissions, claims.Permissions)
		c.Next()
	}
}

// RequirePermission gates admin-only routes.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permissions, _ := c.Get(ContextPermissions)
		granted, _ := permissions.([]string)
		for _, p := range granted {
			if p == permission {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		c.Abort()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func splitPermissions(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	permissions := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			permissions = append(permissions, trimmed)
		}
	}
	return permissions
}
