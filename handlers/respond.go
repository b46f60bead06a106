package handlers

import (
	"HospiCare/middlewares"
	"HospiCare/repositories"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// actorFrom identifies who performs a mutation. The gateway in front of this
// service resolves the user and forwards the username in X-Actor.
func actorFrom(c *gin.Context) string {
	if actor := c.GetHeader("X-Actor"); actor != "" {
		return actor
	}
	return "system"
}

// handleError maps the repository error categories onto HTTP statuses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		middlewares.HttpError(c, err.Error(), http.StatusNotFound, err)
	case errors.Is(err, repositories.ErrValidation):
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, repositories.ErrStateConflict):
		middlewares.HttpError(c, err.Error(), http.StatusConflict, err)
	default:
		middlewares.HttpError(c, "internal server error", http.StatusInternalServerError, err)
	}
}
