package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/porchfin/lendcore/internal/cache"
	"github.com/porchfin/lendcore/internal/config"
	"github.com/porchfin/lendcore/internal/handlers"
	"github.com/porchfin/lendcore/internal/observability"
	"github.com/porchfin/lendcore/internal/pg"
	"github.com/porchfin/lendcore/internal/plaid"
	"github.com/porchfin/lendcore/internal/repo"
	"github.com/porchfin/lendcore/internal/scheduler"
	"github.com/porchfin/lendcore/internal/service"
	"github.com/porchfin/lendcore/pkg/clients"
	"github.com/porchfin/lendcore/pkg/logger"
)

type Application struct {
	cfg     *config.Config
	api     *handlers.Handlers
	srv     *service.Services
	repo    *repo.Repositories
	sched   *scheduler.Scheduler
	metrics *observability.Metrics

	group *errgroup.Group
}

func New() *Application {
	return &Application{}
}

// Start wires the whole engine: storage, transfer provider client, services,
// HTTP API and the batch scheduler.
func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	if err := logger.Init(cfg.LogLvl); err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(ctx, pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)
	conn := pg.New(pool)

	a.cfg = cfg
	a.metrics = observability.NewMetrics()
	a.repo = repo.New(conn, txManager)

	transfers := plaid.NewClient(cfg, clients.NewHTTPClient())
	a.srv = service.New(cfg, a.repo, transfers, a.metrics)
	a.srv.PaymentService.SetLocker(txManager)

	// Redis is optional: without it quotes are recomputed and webhook dedup
	// falls back to the status-compare rule alone.
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			zap.L().Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			a.srv.LoanService.SetQuoteCache(rdb)
			a.srv.PaymentService.SetEventDeduper(rdb)
		}
	}

	a.api = handlers.New(a.srv, cfg, a.metrics)
	a.sched = scheduler.New(a.srv.PaymentService, cfg.ProcessInterval)

	group, groupCtx := errgroup.WithContext(ctx)
	a.group = group
	a.startHTTPServer(groupCtx)
	group.Go(func() error {
		a.sched.Start(groupCtx)
		return nil
	})

	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}

	a.group.Go(func() error {
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	a.group.Go(func() error {
		zap.L().Info("starting http server", zap.String("address", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server exited with error: %w", err)
		}
		return nil
	})
}

// Wait blocks until every subsystem has stopped and returns the first error
// that brought the group down.
func (a *Application) Wait() error {
	return a.group.Wait()
}
