package middleware

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ContextActorID holds the authenticated user's id.
	ContextActorID = "actor_id"
	// ContextRole holds the authenticated user's role.
	ContextRole = "role"

	// JobTokenHeader carries the shared secret of the external cron service.
	JobTokenHeader = "X-Job-Token"

	RoleAdmin = "admin"
)

// Claims are the JWT claims issued by the auth service. The subject is the
// user's id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate validates the bearer token and stores the actor id and role
// on the context.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader {
			abort(c, http.StatusUnauthorized, "bearer token required")
			return
		}

		claims, err := parseToken(tokenString, secret)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ContextActorID, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole rejects requests whose authenticated role is not role.
// It must run after Authenticate.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			abort(c, http.StatusForbidden, role+" access required")
			return
		}
		c.Next()
	}
}

// RequireJobToken guards the internal job endpoints. An empty configured
// token rejects every request.
func RequireJobToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(JobTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			abort(c, http.StatusUnauthorized, "invalid job token")
			return
		}
		c.Next()
	}
}

// ActorID returns the authenticated user's id, or "".
func ActorID(c *gin.Context) string {
	return c.GetString(ContextActorID)
}

// Role returns the authenticated user's role, or "".
func Role(c *gin.Context) string {
	return c.GetString(ContextRole)
}

func parseToken(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("jwt secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}
	return claims, nil
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
