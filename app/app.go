package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pc-recommender/api"
	"pc-recommender/config"
	"pc-recommender/repository"
	"pc-recommender/service"
)

// App wires the store, the API client and every service. It is built once
// per process and owns the store it opened.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Store  repository.Store
	Client *api.Client

	Comparison      *service.ComparisonService
	Recommendations *service.RecommendationService
	Auth            *service.AuthService
	Theme           *service.ThemeService
	Analytics       *service.AnalyticsService
}

func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	return NewWithStore(cfg, logger, store), nil
}

// NewWithStore wires the services on top of an already opened store.
func NewWithStore(cfg *config.Config, logger *zap.Logger, store repository.Store) *App {
	client := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.Timeout,
		api.NewStoreTokenSource(store, logger.Named("auth")),
		logger.Named("api"),
	)

	return &App{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Client: client,
		Comparison: service.NewComparisonService(
			store,
			logger.Named("comparison"),
			service.WithMaxItems(cfg.Comparison.MaxItems),
		),
		Recommendations: service.NewRecommendationService(
			client,
			repository.NewRecommendationRepositoryStore(store),
			logger.Named("recommendations"),
		),
		Auth:      service.NewAuthService(client, store, logger.Named("auth")),
		Theme:     service.NewThemeService(store, logger.Named("theme")),
		Analytics: service.NewAnalyticsService(client, store, logger.Named("analytics"), nil),
	}
}

// OpenStore opens the store selected by cfg.Driver.
func OpenStore(cfg config.StoreConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return repository.NewMemoryStore(), nil
	case config.DriverSQLite:
		store, err := repository.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case config.DriverRedis:
		store := repository.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, cfg.Namespace)
		if err := store.Ping(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

// Close drains pending analytics sends before closing the store they fall
// back to.
func (a *App) Close() error {
	if err := a.Analytics.Close(); err != nil {
		a.Logger.Warn("failed to drain analytics", zap.Error(err))
	}
	return a.Store.Close()
}

// NewLogger builds the process logger. verbose forces debug level.
func NewLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	// Logs go to stderr so command output on stdout stays clean.
	zc.OutputPaths = []string{"stderr"}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
