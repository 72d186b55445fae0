package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/logging"
	"github.com/discovernortheast/internal/metrics"
	"github.com/discovernortheast/internal/store"
)

// DefaultMaxUploadBytes is the largest accepted photo.
const DefaultMaxUploadBytes int64 = 5 << 20

var allowedImageTypes = regexp.MustCompile(`jpeg|jpg|png|gif|webp`)

var captionPolicy = bluemonday.StrictPolicy()

// UploadInput is a visitor photo submitted for a city.
type UploadInput struct {
	CitySlug    string
	Caption     string
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadService stores visitor photos and queues them for moderation.
type UploadService struct {
	store    store.Store
	location UploadLocation
	maxBytes int64
	now      func() time.Time
	log      zerolog.Logger
}

// NewUploadService creates an UploadService. maxBytes <= 0 uses the default.
func NewUploadService(st store.Store, location UploadLocation, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{
		store:    st,
		location: location,
		maxBytes: maxBytes,
		now:      time.Now,
		log:      logging.With("uploads"),
	}
}

// Location returns where uploads are stored and served.
func (s *UploadService) Location() UploadLocation {
	return s.location
}

// Save validates and stores the photo, then appends an unmoderated gallery
// entry to the city. The file is removed again if the city is unknown or
// the entry cannot be persisted.
func (s *UploadService) Save(ctx context.Context, input UploadInput) (content.GalleryImage, error) {
	img, err := s.save(ctx, input)
	switch {
	case err == nil:
		metrics.RecordUpload("accepted")
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		metrics.RecordUpload("rejected")
	default:
		metrics.RecordUpload("failed")
	}
	return img, err
}

func (s *UploadService) save(ctx context.Context, input UploadInput) (content.GalleryImage, error) {
	if input.Content == nil {
		return content.GalleryImage{}, invalid(MsgNoFileUploaded)
	}

	ext := strings.ToLower(filepath.Ext(input.Filename))
	if !allowedImageTypes.MatchString(ext) || !allowedImageTypes.MatchString(strings.ToLower(input.ContentType)) {
		return content.GalleryImage{}, invalid(MsgOnlyImagesAllowed)
	}
	if input.Size > s.maxBytes {
		return content.GalleryImage{}, invalid(MsgFileTooLarge)
	}

	citySlug := strings.TrimSpace(input.CitySlug)
	if citySlug == "" {
		return content.GalleryImage{}, invalid(MsgCitySlugRequired)
	}

	if err := os.MkdirAll(s.location.Dir, 0o755); err != nil {
		return content.GalleryImage{}, fmt.Errorf("%w: create upload dir: %v", store.ErrStorage, err)
	}

	name := fmt.Sprintf("%s-%s%s", s.now().Format("20060102150405"), uuid.NewString(), ext)
	path := filepath.Join(s.location.Dir, name)
	if err := s.writeFile(path, input.Content); err != nil {
		return content.GalleryImage{}, err
	}

	cfg, err := decodeImageConfig(path)
	if err != nil {
		s.discard(path)
		return content.GalleryImage{}, invalid(MsgUnreadableImageFile)
	}

	img := content.GalleryImage{
		ID:         uuid.NewString(),
		URL:        s.location.URLFor(name),
		Caption:    cleanText(input.Caption, content.MaxCaptionLen),
		Moderated:  false,
		UploadedAt: s.now().UTC(),
		Width:      cfg.Width,
		Height:     cfg.Height,
	}
	entry, err := content.ToDocument(img)
	if err != nil {
		s.discard(path)
		return content.GalleryImage{}, err
	}

	err = updateCollection(ctx, s.store, content.CollectionCities, func(docs []content.Document) ([]content.Document, error) {
		idx := content.Find(docs, citySlug)
		if idx < 0 {
			return nil, ErrCityNotFound
		}
		gallery, _ := docs[idx]["gallery"].([]any)
		docs[idx]["gallery"] = append(gallery, map[string]any(entry))
		return docs, nil
	})
	if err != nil {
		s.discard(path)
		return content.GalleryImage{}, err
	}

	s.log.Info().Str("city", citySlug).Str("image_id", img.ID).Str("file", name).Msg("image uploaded for moderation")
	return img, nil
}

// writeFile copies at most maxBytes from r into path.
func (s *UploadService) writeFile(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create upload: %v", store.ErrStorage, err)
	}
	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		s.discard(path)
		return fmt.Errorf("%w: write upload: %v", store.ErrStorage, err)
	}
	if n > s.maxBytes {
		s.discard(path)
		return invalid(MsgFileTooLarge)
	}
	return nil
}

func (s *UploadService) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("failed to remove discarded upload")
	}
}

// SweepOrphans deletes upload files that no gallery entry references and
// that are older than grace. It returns the number of files removed.
func (s *UploadService) SweepOrphans(ctx context.Context, grace time.Duration) (int, error) {
	cities, err := loadCollection(ctx, s.store, content.CollectionCities)
	if err != nil {
		return 0, err
	}
	refs := make(map[string]struct{})
	for url := range content.ReferencedFiles(cities) {
		if name, ok := s.location.FileName(url); ok {
			refs[name] = struct{}{}
		}
	}

	entries, err := os.ReadDir(s.location.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: read upload dir: %v", store.ErrStorage, err)
	}

	cutoff := s.now().Add(-grace)
	removed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, ok := refs[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.location.Dir, entry.Name())); err != nil {
			s.log.Warn().Err(err).Str("file", entry.Name()).Msg("failed to remove orphaned upload")
			continue
		}
		removed++
	}
	if removed > 0 {
		metrics.RecordJanitorRemoval(removed)
		s.log.Info().Int("removed", removed).Msg("removed orphaned uploads")
	}
	return removed, nil
}

func decodeImageConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}
