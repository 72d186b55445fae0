package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/discovernortheast/internal/config"
	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/handler"
	"github.com/discovernortheast/internal/logging"
	"github.com/discovernortheast/internal/router"
	"github.com/discovernortheast/internal/service"
	"github.com/discovernortheast/internal/store"
	"github.com/discovernortheast/internal/supervisor"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.StoreBackend, cfg.DataDir)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Init(ctx, content.CollectionStates, content.CollectionCities, content.CollectionFeedback); err != nil {
		return err
	}
	checkContent(ctx, st)

	if cfg.UsesDefaultPassword() {
		logging.Warn().Msg("ADMIN_PASS is not set; using the default admin password")
	}
	gate, err := service.NewAdminGate(cfg.AdminPassword, cfg.AdminPasswordHash, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	api := handler.NewAPI(handler.Options{
		Store:          st,
		Gate:           gate,
		Uploads:        service.UploadLocation{Dir: cfg.UploadDir, URLPath: cfg.UploadURLPath},
		MaxUploadBytes: cfg.MaxUploadBytes,
		WebDir:         cfg.WebDir,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(cfg, api),
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{ShutdownTimeout: cfg.ShutdownTimeout})
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.ShutdownTimeout))
	tree.AddMaintenanceService(supervisor.NewJanitorService(api.Uploads(), cfg.JanitorInterval, cfg.JanitorGrace))

	logging.Info().
		Str("addr", cfg.ListenAddr).
		Str("store", cfg.StoreBackend).
		Str("data_dir", cfg.DataDir).
		Msg("server starting")
	return tree.Serve(ctx)
}

// checkContent logs broken references in the seed data; the server still
// starts so an editor can fix them through the admin API.
func checkContent(ctx context.Context, st store.Store) {
	states, err := st.Load(ctx, content.CollectionStates)
	if err != nil {
		logging.Warn().Err(err).Msg("could not load states for reference check")
		return
	}
	cities, err := st.Load(ctx, content.CollectionCities)
	if err != nil {
		logging.Warn().Err(err).Msg("could not load cities for reference check")
		return
	}
	for _, p := range content.CheckReferences(states, cities) {
		logging.Warn().Str("problem", p.String()).Msg("content reference check")
	}
}
