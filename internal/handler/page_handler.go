package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/discovernortheast/internal/content"
)

// Page serves one of the static HTML pages from the web directory.
func (a *API) Page(name string) gin.HandlerFunc {
	path := filepath.Join(a.webDir, name)
	return func(c *gin.Context) {
		if _, err := os.Stat(path); err != nil {
			respondError(c, http.StatusNotFound, "Page not found")
			return
		}
		c.File(path)
	}
}

// Health reports whether the content store can be read.
func (a *API) Health(c *gin.Context) {
	if _, err := a.store.Load(c.Request.Context(), content.CollectionStates); err != nil {
		a.log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
