package commands

import (
	"fmt"

	"github.com/wonny/sage/internal/advisory"
	"github.com/wonny/sage/internal/data/repos"
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/internal/external/quotes"
	"github.com/wonny/sage/pkg/config"
	"github.com/wonny/sage/pkg/database"
	"github.com/wonny/sage/pkg/httputil"
	"github.com/wonny/sage/pkg/logger"
	"github.com/wonny/sage/pkg/redis"
)

// app bundles the wired service graph every command starts from
// ⭐ SSOT: 의존성 조립은 이 파일에서만
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	rdb    *redis.Client
	cache  *redis.Cache
	quotes *quotes.Client

	markets      *repos.MarketDataRepository
	fundamentals *repos.FundamentalRepository
	sentiments   *repos.SentimentRepository
	signals      *repos.SignalRepository

	service *advisory.Service
}

// newApp loads config and wires repositories, engine, and collaborators
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	httpClient := httputil.New(log, cfg.Quotes.RequestsPerSec, cfg.Quotes.Burst)

	a := &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		rdb:    rdb,
		cache:  redis.NewCache(rdb, "sage"),
		quotes: quotes.NewClient(httpClient, log, cfg.Quotes.BaseURL),

		markets:      repos.NewMarketDataRepository(db.Pool),
		fundamentals: repos.NewFundamentalRepository(db.Pool),
		sentiments:   repos.NewSentimentRepository(db.Pool),
		signals:      repos.NewSignalRepository(db.Pool),
	}

	enginePath := cfg.Engine.ConfigPath
	if engineConfigPath != "" {
		enginePath = engineConfigPath
	}
	engineCfg := engineconfig.LoadOrDefault(enginePath, log)
	generator := advisory.NewFromConfig(engineCfg, log)
	a.service = advisory.NewService(
		a.markets, a.fundamentals, a.sentiments, a.signals,
		generator, cfg.Engine.LookbackDays, log,
	)

	return a, nil
}

// close releases all connections
func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
