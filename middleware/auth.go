package middleware

import (
	"net/http"
	"strings"

	"foodgram-backend/models"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware requires a valid Bearer token and loads the user row
// into the context.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromHeader(c, db)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided"})
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// OptionalAuthMiddleware loads the user when a valid token is present and
// lets the request through anonymously otherwise.
func OptionalAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := userFromHeader(c, db); ok {
			c.Set("user", user)
			c.Set("user_id", user.ID)
		}
		c.Next()
	}
}

func userFromHeader(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}

	claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return nil, false
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, false
	}

	return &user, true
}
