package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskhub/internal/model"
)

// statusForKind is the single place domain error kinds become HTTP status
// codes. No handler maps them differently.
func statusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindAlreadyExists:
		return http.StatusConflict
	case model.KindUnauthenticated:
		return http.StatusUnauthorized
	case model.KindForbidden:
		return http.StatusForbidden
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := model.KindOf(err)
	if kind == model.KindInternal {
		// Details stay in the logs.
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(statusForKind(kind), gin.H{"error": err.Error()})
}
