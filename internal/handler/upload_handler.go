package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/discovernortheast/internal/service"
)

// UploadPhoto stores a visitor photo for a city, pending moderation.
// Multipart fields: photo (file), citySlug, caption.
func (a *API) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		if isBodyTooLarge(err) {
			respondError(c, http.StatusBadRequest, service.MsgFileTooLarge)
			return
		}
		respondError(c, http.StatusBadRequest, service.MsgNoFileUploaded)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, service.MsgNoFileUploaded)
		return
	}
	defer src.Close()

	img, err := a.uploads.Save(c.Request.Context(), service.UploadInput{
		CitySlug:    c.PostForm("citySlug"),
		Caption:     c.PostForm("caption"),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Content:     src,
	})
	if err != nil {
		a.respondServiceError(c, err, "Failed to save image data")
		return
	}

	respondSuccess(c, "Image uploaded successfully", gin.H{"image": img})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
