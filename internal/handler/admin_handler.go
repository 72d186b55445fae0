package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/discovernortheast/internal/service"
)

type adminPayload struct {
	Password string `json:"password"`
}

type updateStatePayload struct {
	Password  string         `json:"password"`
	StateData map[string]any `json:"stateData"`
}

type updateCityPayload struct {
	Password string         `json:"password"`
	CityData map[string]any `json:"cityData"`
}

type moderatePayload struct {
	Password string `json:"password"`
	CitySlug string `json:"citySlug"`
	ImageID  any    `json:"imageId"`
	Action   string `json:"action"`
}

// imageID accepts string ids and the numeric ids of older records.
func (p moderatePayload) imageID() string {
	switch v := p.ImageID.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// AdminLogin verifies the shared admin password.
func (a *API) AdminLogin(c *gin.Context) {
	var payload adminPayload
	if !bindJSON(c, &payload, "Invalid password") {
		return
	}
	if err := a.gate.Check(payload.Password); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	respondSuccess(c, "Login successful", nil)
}

// UpdateState overwrites the allow-listed fields of a state.
func (a *API) UpdateState(c *gin.Context) {
	var payload updateStatePayload
	if !bindJSON(c, &payload, service.MsgInvalidStateData) {
		return
	}
	if !a.authorize(c, payload.Password) {
		return
	}

	if _, err := a.content.UpdateState(c.Request.Context(), payload.StateData); err != nil {
		a.respondServiceError(c, err, "Failed to save state data")
		return
	}
	respondSuccess(c, "State updated successfully", nil)
}

// UpdateCity overwrites the allow-listed fields of a city.
func (a *API) UpdateCity(c *gin.Context) {
	var payload updateCityPayload
	if !bindJSON(c, &payload, service.MsgInvalidCityData) {
		return
	}
	if !a.authorize(c, payload.Password) {
		return
	}

	if _, err := a.content.UpdateCity(c.Request.Context(), payload.CityData); err != nil {
		a.respondServiceError(c, err, "Failed to save city data")
		return
	}
	respondSuccess(c, "City updated successfully", nil)
}

// Moderate approves or rejects a pending gallery image.
func (a *API) Moderate(c *gin.Context) {
	var payload moderatePayload
	if !bindJSON(c, &payload, service.MsgMissingParameters) {
		return
	}
	if !a.authorize(c, payload.Password) {
		return
	}

	_, err := a.moderation.Moderate(c.Request.Context(), service.ModerationInput{
		CitySlug: payload.CitySlug,
		ImageID:  payload.imageID(),
		Action:   payload.Action,
	})
	if err != nil {
		a.respondServiceError(c, err, "Failed to save changes")
		return
	}
	respondSuccess(c, moderationMessages[payload.Action], nil)
}

var moderationMessages = map[string]string{
	service.ActionApprove: "Image approved successfully",
	service.ActionReject:  "Image rejected successfully",
}

// ListFeedback returns the full feedback log.
func (a *API) ListFeedback(c *gin.Context) {
	var payload adminPayload
	if !bindJSON(c, &payload, "Invalid admin password") {
		return
	}
	if !a.authorize(c, payload.Password) {
		return
	}

	entries, err := a.feedback.List(c.Request.Context())
	if err != nil {
		a.respondServiceError(c, err, "Failed to load feedback")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListPending returns every image awaiting moderation.
func (a *API) ListPending(c *gin.Context) {
	var payload adminPayload
	if !bindJSON(c, &payload, "Invalid admin password") {
		return
	}
	if !a.authorize(c, payload.Password) {
		return
	}

	pending, err := a.moderation.PendingImages(c.Request.Context())
	if err != nil {
		a.respondServiceError(c, err, "Failed to load cities data")
		return
	}
	c.JSON(http.StatusOK, pending)
}
