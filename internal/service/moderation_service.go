package service

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/logging"
	"github.com/discovernortheast/internal/metrics"
	"github.com/discovernortheast/internal/store"
	"github.com/discovernortheast/internal/validation"
)

// Moderation actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ModerationInput addresses one gallery image and the action to apply.
type ModerationInput struct {
	CitySlug string `json:"citySlug" validate:"required"`
	ImageID  string `json:"imageId" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=approve reject"`
}

// ModerationService moves uploaded images out of the pending state.
// Approve marks an image moderated; reject drops the entry and then
// removes its file, logging but not reporting unlink failures.
type ModerationService struct {
	store    store.Store
	location UploadLocation
	log      zerolog.Logger
}

// NewModerationService creates a ModerationService instance.
func NewModerationService(st store.Store, location UploadLocation) *ModerationService {
	return &ModerationService{
		store:    st,
		location: location,
		log:      logging.With("moderation"),
	}
}

// Moderate applies input.Action to the addressed image and returns the
// image as it was found. The city and image are resolved before the
// action is checked, so an unknown city is a not-found even when the
// action is also bad.
func (s *ModerationService) Moderate(ctx context.Context, input ModerationInput) (content.GalleryImage, error) {
	badAction := false
	if err := validation.Struct(input); err != nil {
		var verr *validation.Error
		if !errors.As(err, &verr) || verr.HasTag("required") || !verr.Has("action", "oneof") {
			return content.GalleryImage{}, invalid(MsgMissingParameters)
		}
		badAction = true
	}

	var found content.GalleryImage
	err := updateCollection(ctx, s.store, content.CollectionCities, func(docs []content.Document) ([]content.Document, error) {
		idx := content.Find(docs, input.CitySlug)
		if idx < 0 {
			return nil, ErrCityNotFound
		}

		gallery, _ := docs[idx]["gallery"].([]any)
		pos := -1
		for i, entry := range gallery {
			m, ok := entry.(map[string]any)
			if ok && content.Document(m).String("id") == input.ImageID {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, ErrImageNotFound
		}
		if badAction {
			return nil, invalid(MsgInvalidAction)
		}

		entry := gallery[pos].(map[string]any)
		if err := content.Document(entry).Decode(&found); err != nil {
			return nil, err
		}

		switch input.Action {
		case ActionApprove:
			entry["moderated"] = true
		case ActionReject:
			gallery = append(gallery[:pos:pos], gallery[pos+1:]...)
		}
		docs[idx]["gallery"] = gallery
		return docs, nil
	})
	if err != nil {
		return content.GalleryImage{}, err
	}

	metrics.RecordModeration(input.Action)
	if input.Action == ActionReject {
		s.removeFile(found)
	}
	return found, nil
}

// PendingImages lists every image still awaiting moderation.
func (s *ModerationService) PendingImages(ctx context.Context) ([]content.PendingImage, error) {
	cities, err := loadCollection(ctx, s.store, content.CollectionCities)
	if err != nil {
		return nil, err
	}
	return content.Pending(cities), nil
}

func (s *ModerationService) removeFile(img content.GalleryImage) {
	path, ok := s.location.PathFor(img.URL)
	if !ok {
		s.log.Debug().Str("image_id", img.ID).Str("url", img.URL).Msg("rejected image is not an upload, file kept")
		return
	}
	if err := os.Remove(path); err != nil {
		s.log.Warn().Err(err).Str("image_id", img.ID).Msg("failed to delete rejected image file")
	}
}
