package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AliAmzai/Tablr/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID = "user_id"
	ContextToken  = "token"
	ContextClaims = "claims"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid authorization format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if !authenticate(c, tokenString) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokenString string) bool {
	claims, err := utils.ParseToken(tokenString)
	if err != nil || claims == nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
		c.Abort()
		return false
	}
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextToken, tokenString)
	c.Set(ContextClaims, claims)
	return true
}

// UserID returns the authenticated user, or 0 outside an authenticated route.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func Claims(c *gin.Context) *utils.CustomClaims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.CustomClaims)
	return claims
}
