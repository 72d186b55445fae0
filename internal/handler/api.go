package handler

import (
	"github.com/rs/zerolog"

	"github.com/discovernortheast/internal/logging"
	"github.com/discovernortheast/internal/service"
	"github.com/discovernortheast/internal/store"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	store      store.Store
	content    *service.ContentService
	moderation *service.ModerationService
	uploads    *service.UploadService
	feedback   *service.FeedbackService
	gate       *service.AdminGate
	webDir     string
	log        zerolog.Logger
}

// Options configures NewAPI.
type Options struct {
	Store          store.Store
	Gate           *service.AdminGate
	Uploads        service.UploadLocation
	MaxUploadBytes int64
	WebDir         string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(opts Options) *API {
	return &API{
		store:      opts.Store,
		content:    service.NewContentService(opts.Store),
		moderation: service.NewModerationService(opts.Store, opts.Uploads),
		uploads:    service.NewUploadService(opts.Store, opts.Uploads, opts.MaxUploadBytes),
		feedback:   service.NewFeedbackService(opts.Store),
		gate:       opts.Gate,
		webDir:     opts.WebDir,
		log:        logging.With("http"),
	}
}

// Uploads exposes the upload service for background maintenance.
func (a *API) Uploads() *service.UploadService {
	return a.uploads
}
