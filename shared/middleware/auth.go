package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

func jwtSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

// Claims is the JWT payload. Both services validate tokens with the shared
// secret instead of round-tripping opaque strings for introspection.
type Claims struct {
	CustomerID string `json:"customerId"`
	Username   string `json:"username"`
	Staff      bool   `json:"staff"`
	jwt.RegisteredClaims
}

// GenerateToken signs a 24-hour token for the given customer.
func GenerateToken(customerID, username string, staff bool) (string, error) {
	claims := Claims{
		CustomerID: customerID,
		Username:   username,
		Staff:      staff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// AuthMiddleware validates the bearer token and stores the caller's identity
// in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			return jwtSecret(), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("customerId", claims.CustomerID)
		c.Set("username", claims.Username)
		c.Set("staff", claims.Staff)
		c.Next()
	}
}

// GetCustomerID returns the authenticated caller's customer identifier.
func GetCustomerID(c *gin.Context) (string, bool) {
	id, exists := c.Get("customerId")
	if !exists {
		return "", false
	}
	return id.(string), true
}

// GetUsername returns the authenticated caller's username.
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get("username")
	if !exists {
		return "", false
	}
	return username.(string), true
}

// IsStaff reports whether the authenticated caller carries the staff claim.
func IsStaff(c *gin.Context) bool {
	staff, exists := c.Get("staff")
	if !exists {
		return false
	}
	return staff.(bool)
}
