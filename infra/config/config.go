// Package config loads application configuration from a TOML file and
// CANCELME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mathfra-rgb/cancelme-mvp/engage"
)

// EnvPrefix prefixes every environment override, e.g. CANCELME_API_BASE_URL.
const EnvPrefix = "CANCELME"

// Media backends.
const (
	MediaStorage = "storage"
	MediaS3      = "s3"
)

// Config holds application-level configuration.
type Config struct {
	Dir  string // config directory
	File string // config file, may not exist

	APIBaseURL string // empty runs on the built-in demo store
	APIKey     string
	APIKeyFile string
	APITimeout time.Duration
	SiteURL    string // base of share permalinks

	Media MediaConfig

	DBPath   string
	LogFile  string
	LogLevel string

	PageSize   int
	Limits     engage.Limits
	Moderation engage.Policy
}

// MediaConfig selects where uploads go.
type MediaConfig struct {
	Backend       string
	Bucket        string
	S3Region      string
	PublicBaseURL string
}

// Demo reports whether no remote store is configured.
func (c Config) Demo() bool { return c.APIBaseURL == "" }

// DefaultDir returns ~/.config/cancelme.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cancelme"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cancelme"), nil
}

// Load reads configuration. An empty path uses <DefaultDir>/config.toml.
// A missing file is not an error; every key has a default.
func Load(path string) (Config, error) {
	var dir string
	if path != "" {
		dir = filepath.Dir(path)
	} else {
		d, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		dir = d
		path = filepath.Join(dir, "config.toml")
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return fromViper(v, dir, path)
}

func setDefaults(v *viper.Viper, dir string) {
	d := engage.DefaultLimits()
	p := engage.DefaultPolicy()

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.key", "")
	v.SetDefault("api.key_file", filepath.Join(dir, "api_key"))
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("site.url", "https://cancelme.app")

	v.SetDefault("media.backend", MediaStorage)
	v.SetDefault("media.bucket", "media")
	v.SetDefault("media.s3_region", "eu-west-3")
	v.SetDefault("media.public_base_url", "")

	v.SetDefault("local.db_path", filepath.Join(dir, "local.db"))
	v.SetDefault("log.file", filepath.Join(dir, "cancelme.log"))
	v.SetDefault("log.level", "info")

	v.SetDefault("feed.page_size", 20)

	v.SetDefault("limits.comment_global_max", d.CommentGlobal.Max)
	v.SetDefault("limits.comment_global_window", d.CommentGlobal.Span)
	v.SetDefault("limits.comment_post_max", d.CommentPerPost.Max)
	v.SetDefault("limits.comment_post_window", d.CommentPerPost.Span)
	v.SetDefault("limits.reaction_global_max", d.ReactionGlobal.Max)
	v.SetDefault("limits.reaction_global_window", d.ReactionGlobal.Span)
	v.SetDefault("limits.reaction_post_max", d.ReactionPerPost.Max)
	v.SetDefault("limits.reaction_post_window", d.ReactionPerPost.Span)

	v.SetDefault("moderation.threshold", p.Threshold)
	v.SetDefault("moderation.window", p.Window)
}

func fromViper(v *viper.Viper, dir, path string) (Config, error) {
	base, err := normalizeBaseURL(v.GetString("api.base_url"))
	if err != nil {
		return Config{}, err
	}
	site, err := normalizeSiteURL(v.GetString("site.url"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Dir:        dir,
		File:       path,
		APIBaseURL: base,
		APIKey:     strings.TrimSpace(v.GetString("api.key")),
		APIKeyFile: expandPath(v.GetString("api.key_file")),
		APITimeout: v.GetDuration("api.timeout"),
		SiteURL:    site,
		Media: MediaConfig{
			Backend:       strings.ToLower(strings.TrimSpace(v.GetString("media.backend"))),
			Bucket:        v.GetString("media.bucket"),
			S3Region:      v.GetString("media.s3_region"),
			PublicBaseURL: strings.TrimRight(v.GetString("media.public_base_url"), "/"),
		},
		DBPath:   expandPath(v.GetString("local.db_path")),
		LogFile:  expandPath(v.GetString("log.file")),
		LogLevel: v.GetString("log.level"),
		PageSize: v.GetInt("feed.page_size"),
		Limits: engage.Limits{
			CommentGlobal:   window(v, "comment_global"),
			CommentPerPost:  window(v, "comment_post"),
			ReactionGlobal:  window(v, "reaction_global"),
			ReactionPerPost: window(v, "reaction_post"),
		},
		Moderation: engage.Policy{
			Threshold: v.GetInt("moderation.threshold"),
			Window:    v.GetDuration("moderation.window"),
		},
	}

	switch cfg.Media.Backend {
	case MediaStorage, MediaS3:
	default:
		return Config{}, fmt.Errorf("invalid media.backend %q: want %q or %q", cfg.Media.Backend, MediaStorage, MediaS3)
	}
	if cfg.Media.Backend == MediaS3 && cfg.Media.PublicBaseURL == "" {
		return Config{}, fmt.Errorf("media.public_base_url is required with the s3 backend")
	}
	if cfg.APITimeout <= 0 {
		return Config{}, fmt.Errorf("invalid api.timeout: must be positive")
	}
	if cfg.PageSize <= 0 {
		return Config{}, fmt.Errorf("invalid feed.page_size: must be positive")
	}
	return cfg, nil
}

func window(v *viper.Viper, name string) engage.Window {
	return engage.Window{
		Max:  v.GetInt("limits." + name + "_max"),
		Span: v.GetDuration("limits." + name + "_window"),
	}
}

// normalizeBaseURL accepts an absolute https URL, or plain http on a
// loopback host for local development.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid api.base_url: must be an absolute URL")
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return "", fmt.Errorf("invalid api.base_url: http is only allowed for localhost")
		}
	default:
		return "", fmt.Errorf("invalid api.base_url: unsupported scheme %q", parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func normalizeSiteURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid site.url: must be an absolute URL")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
