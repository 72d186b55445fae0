package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultAdminPassword is used when neither ADMIN_PASS nor ADMIN_PASS_HASH is set.
const DefaultAdminPassword = "changeme"

// ConfigPathEnvVar names the variable that points at an optional YAML file.
const ConfigPathEnvVar = "CONFIG_PATH"

// AppConfig collects everything the server needs to run.
type AppConfig struct {
	ListenAddr         string        `koanf:"listen_addr"`
	Port               string        `koanf:"port"`
	GinMode            string        `koanf:"gin_mode"`
	DataDir            string        `koanf:"data_dir"`
	StoreBackend       string        `koanf:"store_backend"`
	AdminPassword      string        `koanf:"admin_pass"`
	AdminPasswordHash  string        `koanf:"admin_pass_hash"`
	UploadDir          string        `koanf:"upload_dir"`
	UploadURLPath      string        `koanf:"upload_url_path"`
	MaxUploadBytes     int64         `koanf:"max_upload_bytes"`
	WebDir             string        `koanf:"web_dir"`
	LogLevel           string        `koanf:"log_level"`
	LogFormat          string        `koanf:"log_format"`
	CORSOrigins        string        `koanf:"cors_origins"`
	RateLimitPerMinute int           `koanf:"rate_limit_per_minute"`
	JanitorInterval    time.Duration `koanf:"janitor_interval"`
	JanitorGrace       time.Duration `koanf:"janitor_grace"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`
}

func defaults() AppConfig {
	return AppConfig{
		Port:               "3000",
		GinMode:            "release",
		DataDir:            "server/data",
		StoreBackend:       "json",
		UploadDir:          "web/uploads",
		UploadURLPath:      "/uploads",
		MaxUploadBytes:     5 << 20,
		WebDir:             "web",
		LogLevel:           "info",
		LogFormat:          "json",
		CORSOrigins:        "*",
		RateLimitPerMinute: 30,
		JanitorInterval:    time.Hour,
		JanitorGrace:       24 * time.Hour,
		ShutdownTimeout:    10 * time.Second,
	}
}

// Load layers struct defaults, an optional YAML file and the environment,
// in that order of precedence.
func Load() (AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return AppConfig{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := configFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return AppConfig{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	known := make(map[string]struct{})
	for _, key := range k.Keys() {
		known[key] = struct{}{}
	}
	if err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key := strings.ToLower(name)
		if _, ok := known[key]; !ok || strings.TrimSpace(value) == "" {
			return "", nil
		}
		return key, value
	}), nil); err != nil {
		return AppConfig{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return normalize(cfg), nil
}

func configFile() string {
	if path := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); path != "" {
		return path
	}
	for _, candidate := range []string{"config.yaml", "config.yml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// normalize trims every value and restores defaults for blanks, so an empty
// variable behaves like an unset one.
func normalize(cfg AppConfig) AppConfig {
	def := defaults()

	cfg.Port = orDefault(cfg.Port, def.Port)
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}
	cfg.GinMode = orDefault(cfg.GinMode, def.GinMode)
	cfg.DataDir = orDefault(cfg.DataDir, def.DataDir)
	cfg.StoreBackend = strings.ToLower(orDefault(cfg.StoreBackend, def.StoreBackend))
	cfg.AdminPasswordHash = strings.TrimSpace(cfg.AdminPasswordHash)
	cfg.AdminPassword = strings.TrimSpace(cfg.AdminPassword)
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		cfg.AdminPassword = DefaultAdminPassword
	}
	cfg.UploadDir = orDefault(cfg.UploadDir, def.UploadDir)
	cfg.UploadURLPath = "/" + strings.Trim(orDefault(cfg.UploadURLPath, def.UploadURLPath), "/")
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	cfg.WebDir = orDefault(cfg.WebDir, def.WebDir)
	cfg.LogLevel = orDefault(cfg.LogLevel, def.LogLevel)
	cfg.LogFormat = orDefault(cfg.LogFormat, def.LogFormat)

	cfg.CORSOrigins = orDefault(cfg.CORSOrigins, def.CORSOrigins)

	if cfg.RateLimitPerMinute < 0 {
		cfg.RateLimitPerMinute = 0
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = def.JanitorInterval
	}
	if cfg.JanitorGrace <= 0 {
		cfg.JanitorGrace = def.JanitorGrace
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	return cfg
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

// UsesDefaultPassword reports whether the admin secret was left at its default.
func (c AppConfig) UsesDefaultPassword() bool {
	return c.AdminPasswordHash == "" && c.AdminPassword == DefaultAdminPassword
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
