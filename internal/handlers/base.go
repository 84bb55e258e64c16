package handlers

import (
	"errors"
	"net/http"

	"sentry/internal/logger"
	"sentry/internal/middleware"
	"sentry/internal/repository"
	"sentry/internal/services"
	"sentry/internal/utils"

	"github.com/gin-gonic/gin"
)

// RespondError maps service and store errors to status codes.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrReference):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrConstraintViolation), errors.Is(err, services.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		l := logger.WithRequestID(c.GetString(middleware.RequestIDKey))
		l.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		message = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// paramID reads a positive id path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return id, true
}

func userID(c *gin.Context) uint {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}
