package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	SiteTitle   string `mapstructure:"SITE_TITLE"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	API struct {
		URL     string        `mapstructure:"API_URL"`
		Timeout time.Duration `mapstructure:"API_TIMEOUT"`
	} `mapstructure:",squash"`

	Cache struct {
		TTL             time.Duration `mapstructure:"CACHE_TTL"`
		CleanupInterval time.Duration `mapstructure:"CACHE_CLEANUP_INTERVAL"`
		PollTimeout     time.Duration `mapstructure:"POLL_TIMEOUT"`
	} `mapstructure:",squash"`

	Session struct {
		TTL    time.Duration `mapstructure:"SESSION_TTL"`
		Cookie string        `mapstructure:"SESSION_COOKIE"`
	} `mapstructure:",squash"`

	Limiter struct {
		Enabled bool    `mapstructure:"LIMITER_ENABLED"`
		RPS     float64 `mapstructure:"LIMITER_RPS"`
		Burst   int     `mapstructure:"LIMITER_BURST"`
	} `mapstructure:",squash"`
}

var defaults = map[string]any{
	"PORT":                   ":4000",
	"ENVIRONMENT":            "development",
	"VERSION":                "1.0.0",
	"LOG_LEVEL":              "info",
	"SITE_TITLE":             "Blogist",
	"TLS_CERT_FILE":          "",
	"TLS_KEY_FILE":           "",
	"API_URL":                "http://localhost:3001",
	"API_TIMEOUT":            time.Duration(0),
	"CACHE_TTL":              5 * time.Minute,
	"CACHE_CLEANUP_INTERVAL": 10 * time.Minute,
	"POLL_TIMEOUT":           20 * time.Second,
	"SESSION_TTL":            24 * time.Hour,
	"SESSION_COOKIE":         "blogist_session",
	"LIMITER_ENABLED":        true,
	"LIMITER_RPS":            10.0,
	"LIMITER_BURST":          20,
}

// loadConfig reads path as a dotenv file. Environment variables override the
// file, and a missing file leaves the defaults in place.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
