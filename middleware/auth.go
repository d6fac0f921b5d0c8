package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"hirehub-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for userID.
func IssueToken(secret, userID string, role models.Role, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// AuthMiddleware validates the JWT from the Authorization header.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return authenticate(secret, false)
}

// SocketAuthMiddleware is AuthMiddleware for the websocket upgrade. Browsers
// cannot set headers there, so ?token= is accepted as well.
func SocketAuthMiddleware(secret string) gin.HandlerFunc {
	return authenticate(secret, true)
}

func authenticate(secret string, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c, allowQuery)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization header is required", "error": "unauthenticated"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token", "error": "unauthenticated"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, models.Role(strings.ToUpper(claims.Role)))
		c.Next()
	}
}

func bearerToken(c *gin.Context, allowQuery bool) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			return "", false
		}
		return strings.TrimSpace(tokenString), true
	}
	if !allowQuery {
		return "", false
	}
	if q := strings.TrimSpace(c.Query("token")); q != "" {
		return q, true
	}
	return "", false
}

// RequireRole checks if user has specific role
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"message": "Role not found", "error": "forbidden"})
			c.Abort()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions", "error": "forbidden"})
		c.Abort()
	}
}

func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func CurrentRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ctxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
