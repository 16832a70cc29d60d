package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// HeaderToken is the legacy client header carrying the JWT.
	HeaderToken = "x-auth-token"

	ctxUserID = "auth.userID"
	ctxRole   = "auth.role"
)

var (
	ErrMissingToken = errors.New("auth: missing token")
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims is the token payload issued at login. Role travels in the token
// itself; requests with a roleless token are rejected rather than patched up
// from the database.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Secret returns the signing key from the environment.
func Secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// Parse validates the signed token string and returns its claims.
func Parse(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Sign issues a token for the given identity. Used by tests and tooling; the
// login service that normally issues tokens lives elsewhere.
func Sign(claims Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Middleware authenticates the request from the x-auth-token header and
// stores the identity on the gin context. Requests without a valid token get
// a 401 and never reach the handler.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := Parse(c.GetHeader(HeaderToken), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// Identity returns the authenticated user id and role stored by Middleware.
func Identity(c *gin.Context) (userID, role string) {
	return c.GetString(ctxUserID), c.GetString(ctxRole)
}
