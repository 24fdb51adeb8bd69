package middleware

import (
	"errors"
	"net/http"
	"strings"

	"finance-tracker/internal/handler"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware accepts an access token from "Authorization: Bearer <token>"
// (or ?token= for downloads) and puts the token's user into the context.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	users := store.New[models.User](db)

	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}
		}
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Detail(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr, util.TokenTypeAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			c.Abort()
			return
		}

		user, err := users.Get(c.Request.Context(), claims.UserID, 0)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "User not found", "code": "user_not_found"})
			} else {
				logger.Log.WithError(err).Error("load token user")
				util.ServerError(c)
			}
			c.Abort()
			return
		}

		c.Set(handler.CurrentUserKey, user)
		c.Next()
	}
}
