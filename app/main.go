package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sushihentaime/blogist/internal/blogservice"
	"github.com/sushihentaime/blogist/internal/common"
	"github.com/sushihentaime/blogist/internal/shell"
	"github.com/sushihentaime/blogist/internal/view"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	cache       *common.Cache
	blogService *blogservice.BlogService
	sessions    *shell.Store
	renderer    *view.Renderer
	limiter     *ipLimiter
}

func main() {
	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the logger
	logger := newLogger(os.Stdout, cfg)

	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize the application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newApplication(cfg *Config, logger *slog.Logger) (*application, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	c := common.NewCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	client := blogservice.NewHTTPClient(cfg.API.Timeout, logger)

	return &application{
		config:      cfg,
		logger:      logger,
		cache:       c,
		blogService: blogservice.NewBlogService(client, cfg.API.URL, c),
		sessions:    shell.NewStore(cfg.Session.TTL, cfg.Cache.CleanupInterval),
		renderer:    renderer,
		limiter:     newIPLimiter(cfg.Limiter.RPS, cfg.Limiter.Burst),
	}, nil
}

// newLogger writes text in development and JSON everywhere else.
func newLogger(w io.Writer, cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if cfg.Environment == "development" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
