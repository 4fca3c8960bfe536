package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvBaseURL overrides the configured API base URL.
	EnvBaseURL = "TODO_API_BASE_URL"

	defaultBaseURL = "http://localhost:3000/api"
	defaultTimeout = 10 * time.Second
)

type Config struct {
	BaseURL string        `mapstructure:"base-url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// LogoutOn401 clears the stored session whenever the server answers
	// 401. Off by default: a transient auth hiccup should not log the
	// user out unless they opted in.
	LogoutOn401 bool `mapstructure:"logout-on-401"`

	// LogRequests turns on JSON request/response log lines.
	LogRequests bool `mapstructure:"log-requests"`
}

// Dir returns the client's dotdir (~/.todo), home of the config file, the
// credentials file, and the debug log.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WithMessage(err, "home")
	}
	return filepath.Join(home, ".todo"), nil
}

// Load reads config.yaml from dir, falling back to defaults when the file
// is absent. The base URL env var wins over both.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("base-url", defaultBaseURL)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("logout-on-401", false)
	v.SetDefault("log-requests", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.WithMessagef(err, "read config from %s", dir)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WithMessagef(err, "parse config from %s", dir)
	}
	if env := os.Getenv(EnvBaseURL); env != "" {
		cfg.BaseURL = env
	}
	return cfg, nil
}
