package middleware

import (
	"net/http"

	"threadstory-be/internal/auth"
	"threadstory-be/internal/logger"
	"threadstory-be/internal/user"
	"threadstory-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgNoToken     = "Not authorized, no token"
	msgTokenFailed = "Not authorized, token failed"
	msgNotAdmin    = "Not authorized as an admin"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// Protect requires a valid access token and stores the caller's identity on
// the request context.
func Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractAccessToken(c.Request)
		if token == "" {
			abort(c, http.StatusUnauthorized, msgNoToken)
			return
		}

		claims, err := user.ParseJWT(token)
		if err != nil {
			logger.FromCtx(c.Request.Context()).Debug("token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			abort(c, http.StatusUnauthorized, msgTokenFailed)
			return
		}

		ctx := utils.SetUserContext(c.Request.Context(), claims.UserID, claims.Email, claims.Role, claims.Name)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AdminOnly must run after Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsAdmin(c.Request.Context()) {
			abort(c, http.StatusForbidden, msgNotAdmin)
			return
		}
		c.Next()
	}
}
