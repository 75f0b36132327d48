package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	dom "todoapi/internal/domain"
	"todoapi/internal/dto"
	"todoapi/internal/service"
	"todoapi/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service and validation errors to status codes.
// Anything unrecognised is logged and reported as a bare 500.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var verr dom.ValidationErrors
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed", Fields: verr.Fields()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid email or password"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authorization required"})
	default:
		log.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "route", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

// parseID rejects anything that is not an ObjectID with 404, the same answer as a missing todo.
func parseID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if !utils.IsObjectID(id) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return "", false
	}
	return id, true
}
