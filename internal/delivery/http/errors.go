package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-service/internal/domain/repositories"
	"shop-service/internal/usecase"
)

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrNotFound), repositories.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrDuplicate), errors.Is(err, repositories.ErrOrderAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders {"message": ...}. Internal errors get a generic message;
// the cause is attached to the gin context for the access log.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := mapErrorToStatus(err)

	var dup *usecase.DuplicateOrderError
	if errors.As(err, &dup) && dup.Order != nil {
		c.AbortWithStatusJSON(status, gin.H{
			"message": dup.Error(),
			"order":   toOrderResp(dup.Order, nil),
		})
		return
	}

	message := err.Error()
	var repoErr *repositories.RepositoryError
	switch {
	case status == http.StatusInternalServerError:
		message = "internal server error"
	case errors.As(err, &repoErr):
		message = repoErr.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": message})
}
