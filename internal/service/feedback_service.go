package service

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/metrics"
	"github.com/discovernortheast/internal/store"
	"github.com/discovernortheast/internal/validation"
)

// FeedbackInput is a visitor message as submitted.
type FeedbackInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contains=@"`
	Message string `json:"message" validate:"required"`
}

// FeedbackService appends visitor feedback to the feedback log.
type FeedbackService struct {
	store store.Store
	now   func() time.Time
}

// NewFeedbackService creates a FeedbackService instance.
func NewFeedbackService(st store.Store) *FeedbackService {
	return &FeedbackService{store: st, now: time.Now}
}

// Submit validates, cleans and appends a feedback entry.
func (s *FeedbackService) Submit(ctx context.Context, input FeedbackInput) (content.FeedbackEntry, error) {
	input.Name = cleanText(input.Name, 0)
	input.Email = cleanText(input.Email, 0)
	input.Message = cleanText(input.Message, 0)

	if err := validation.Struct(input); err != nil {
		if input.Name == "" || input.Email == "" || input.Message == "" {
			return content.FeedbackEntry{}, invalid(MsgAllFieldsRequired)
		}
		return content.FeedbackEntry{}, invalid(MsgInvalidEmail)
	}

	entry := content.FeedbackEntry{
		ID:        uuid.NewString(),
		Name:      content.Truncate(input.Name, content.MaxFeedbackNameLen),
		Email:     content.Truncate(input.Email, content.MaxFeedbackEmailLen),
		Message:   content.Truncate(input.Message, content.MaxFeedbackMessageLen),
		Timestamp: s.now().UTC(),
	}
	doc, err := content.ToDocument(entry)
	if err != nil {
		return content.FeedbackEntry{}, err
	}

	err = updateCollection(ctx, s.store, content.CollectionFeedback, func(docs []content.Document) ([]content.Document, error) {
		return append(docs, doc), nil
	})
	if err != nil {
		return content.FeedbackEntry{}, err
	}
	metrics.RecordFeedback()
	return entry, nil
}

// List returns the full feedback log as stored.
func (s *FeedbackService) List(ctx context.Context) ([]content.Document, error) {
	return loadCollection(ctx, s.store, content.CollectionFeedback)
}

// cleanText strips markup, trims whitespace and, when limit > 0, cuts the
// result to limit runes.
func cleanText(value string, limit int) string {
	text := strings.TrimSpace(html.UnescapeString(captionPolicy.Sanitize(value)))
	if limit > 0 {
		text = content.Truncate(text, limit)
	}
	return text
}
