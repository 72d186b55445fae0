package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/discovernortheast/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondSuccess(c *gin.Context, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for key, value := range extra {
		body[key] = value
	}
	c.JSON(http.StatusOK, body)
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// respondServiceError maps service errors to status codes. Anything not
// recognised is logged and reported as failure without detail.
func (a *API) respondServiceError(c *gin.Context, err error, failure string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrStateNotFound):
		respondError(c, http.StatusNotFound, "State not found")
	case errors.Is(err, service.ErrCityNotFound):
		respondError(c, http.StatusNotFound, "City not found")
	case errors.Is(err, service.ErrImageNotFound):
		respondError(c, http.StatusNotFound, "Image not found")
	case errors.Is(err, service.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Invalid admin password")
	default:
		a.log.Error().Err(err).Str("path", c.FullPath()).Msg(failure)
		respondError(c, http.StatusInternalServerError, failure)
	}
}

// authorize checks the admin password and writes 401 on mismatch.
func (a *API) authorize(c *gin.Context, password string) bool {
	if err := a.gate.Check(password); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid admin password")
		return false
	}
	return true
}
