package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atvirokodosprendimai/mortgageapi/internal/adapters/httpapi"
	"github.com/atvirokodosprendimai/mortgageapi/internal/adapters/ratecache"
	"github.com/atvirokodosprendimai/mortgageapi/internal/adapters/ratesource"
	sqliteadapter "github.com/atvirokodosprendimai/mortgageapi/internal/adapters/sqlite"
	"github.com/atvirokodosprendimai/mortgageapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
	"github.com/atvirokodosprendimai/mortgageapi/internal/core/ports"
	"github.com/atvirokodosprendimai/mortgageapi/internal/core/usecase"
	"github.com/atvirokodosprendimai/mortgageapi/migrations"
)

type Config struct {
	Addr             string
	DBPath           string
	RatesURL         string
	RefreshInterval  time.Duration
	RedisAddr        string
	BootstrapAPIKey  string
	BootstrapKeyName string
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewServer(ctx context.Context, cfg Config) (*http.Server, io.Closer, error) {
	db, err := gormsqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("resolve writer sql db: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := migrations.Up(migrateCtx, writeSQLDB); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	closers := []io.Closer{}

	var cache ports.RateCache
	if cfg.RedisAddr != "" {
		redisCache := ratecache.NewRedisCache(cfg.RedisAddr, 24*time.Hour)
		closers = append(closers, redisCache)
		cache = redisCache
	} else {
		cache = ratecache.NewMemoryCache()
	}

	rateRepo := sqliteadapter.NewRateSheetRepository(db)
	apiKeyRepo := sqliteadapter.NewAPIKeyRepository(db)

	rateService := usecase.NewRateService(rateRepo, cache)
	calculatorService := usecase.NewCalculatorService(rateService)
	authService := usecase.NewAuthService(apiKeyRepo)

	if cfg.RatesURL != "" {
		source, err := ratesource.NewHTTPSource(cfg.RatesURL, 0)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("build rate source: %w", err)
		}
		refresher := usecase.NewRateRefresher(source, rateService, cfg.RefreshInterval, cfg.RatesURL)
		refresher.Start(context.Background())
		closers = append(closers, refresher)
	}

	if cfg.BootstrapAPIKey != "" {
		name := cfg.BootstrapKeyName
		if name == "" {
			name = "bootstrap"
		}

		bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := apiKeyRepo.Upsert(bootstrapCtx, domain.APIKey{
			TokenHash: usecase.HashToken(cfg.BootstrapAPIKey),
			Name:      name,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		})
		bootstrapCancel()
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("bootstrap api key: %w", err)
		}
	}

	handler := httpapi.NewHandler(calculatorService, rateService, authService)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	closers = append(closers, db)
	return server, resourceCloser{closers: closers}, nil
}
