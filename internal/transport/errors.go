package transport

import (
	"net/http"

	"threadstory-be/internal/apperror"
	"threadstory-be/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInternal = "Internal server error"

var errInvalidBody = apperror.BadRequest("Invalid request body")

type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindBadRequest, apperror.KindInvalidArgument, apperror.KindConflict:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as {message, errors?}. Errors that are not
// *apperror.Error never reach the client; they are logged and replaced by a
// generic message.
func WriteError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.KindInternal {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: msgInternal})
		return
	}

	c.AbortWithStatusJSON(statusFor(appErr.Kind), errorResponse{
		Message: appErr.Message,
		Errors:  appErr.Details,
	})
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
