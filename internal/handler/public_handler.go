package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/discovernortheast/internal/service"
)

// ListStates returns every state.
func (a *API) ListStates(c *gin.Context) {
	states, err := a.content.ListStates(c.Request.Context())
	if err != nil {
		a.respondServiceError(c, err, "Failed to load states data")
		return
	}
	c.JSON(http.StatusOK, states)
}

// GetState returns one state with its cities under citiesData.
func (a *API) GetState(c *gin.Context) {
	state, err := a.content.GetState(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.respondServiceError(c, err, "Failed to load data")
		return
	}
	c.JSON(http.StatusOK, state)
}

// ListCities returns every city.
func (a *API) ListCities(c *gin.Context) {
	cities, err := a.content.ListCities(c.Request.Context())
	if err != nil {
		a.respondServiceError(c, err, "Failed to load cities data")
		return
	}
	c.JSON(http.StatusOK, cities)
}

// GetCity returns one city.
func (a *API) GetCity(c *gin.Context) {
	city, err := a.content.GetCity(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.respondServiceError(c, err, "Failed to load cities data")
		return
	}
	c.JSON(http.StatusOK, city)
}

// HeroSlides returns the home page hero slides.
func (a *API) HeroSlides(c *gin.Context) {
	slides, err := a.content.HeroSlides(c.Request.Context())
	if err != nil {
		a.respondServiceError(c, err, "Failed to load states data")
		return
	}
	c.JSON(http.StatusOK, slides)
}

// CitySlides returns the slides for a city page.
func (a *API) CitySlides(c *gin.Context) {
	slides, err := a.content.CitySlides(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.respondServiceError(c, err, "Failed to load cities data")
		return
	}
	c.JSON(http.StatusOK, slides)
}

// SubmitFeedback appends a visitor message.
func (a *API) SubmitFeedback(c *gin.Context) {
	var payload service.FeedbackInput
	if !bindJSON(c, &payload, service.MsgAllFieldsRequired) {
		return
	}

	if _, err := a.feedback.Submit(c.Request.Context(), payload); err != nil {
		a.respondServiceError(c, err, "Failed to save feedback")
		return
	}
	respondSuccess(c, "Feedback submitted successfully", nil)
}
