package client

import (
	"context"

	"github.com/discovernortheast/internal/content"
)

// Admin issues privileged requests with a password held by this value
// rather than by the Client.
type Admin struct {
	c        *Client
	password string
}

// Admin returns a handle carrying password on every privileged call.
func (c *Client) Admin(password string) *Admin {
	return &Admin{c: c, password: password}
}

type passwordBody struct {
	Password string `json:"password"`
}

// Login checks the password. An *APIError with Status 401 means it was
// rejected.
func (a *Admin) Login(ctx context.Context) error {
	return a.c.postJSON(ctx, "/api/admin/login", passwordBody{Password: a.password}, nil, "Invalid password")
}

// UpdateState patches the allow-listed fields of the state named by
// patch["slug"].
func (a *Admin) UpdateState(ctx context.Context, patch content.Document) error {
	body := struct {
		Password  string           `json:"password"`
		StateData content.Document `json:"stateData"`
	}{a.password, patch}
	return a.mutate(ctx, "/api/admin/update/state", body, "Failed to update state")
}

// UpdateCity patches the allow-listed fields of the city named by
// patch["slug"].
func (a *Admin) UpdateCity(ctx context.Context, patch content.Document) error {
	body := struct {
		Password string           `json:"password"`
		CityData content.Document `json:"cityData"`
	}{a.password, patch}
	return a.mutate(ctx, "/api/admin/update/city", body, "Failed to update city")
}

// Moderate approves or rejects a pending image.
func (a *Admin) Moderate(ctx context.Context, citySlug, imageID, action string) error {
	body := struct {
		Password string `json:"password"`
		CitySlug string `json:"citySlug"`
		ImageID  string `json:"imageId"`
		Action   string `json:"action"`
	}{a.password, citySlug, imageID, action}
	return a.mutate(ctx, "/api/admin/moderate", body, "Failed to moderate image")
}

// Feedback returns the full feedback log.
func (a *Admin) Feedback(ctx context.Context) ([]content.FeedbackEntry, error) {
	var out []content.FeedbackEntry
	err := a.c.postJSON(ctx, "/api/admin/feedback", passwordBody{Password: a.password}, &out, "Failed to get feedback")
	return out, err
}

// Pending lists unmoderated uploads across all cities.
func (a *Admin) Pending(ctx context.Context) ([]content.PendingImage, error) {
	var out []content.PendingImage
	err := a.c.postJSON(ctx, "/api/admin/pending", passwordBody{Password: a.password}, &out, "Failed to load pending images")
	return out, err
}

func (a *Admin) mutate(ctx context.Context, path string, body any, fallback string) error {
	if err := a.c.postJSON(ctx, path, body, nil, fallback); err != nil {
		return err
	}
	a.c.InvalidateCache()
	return nil
}
