package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pagoupix/pagoupix-api/internal/api"
	"github.com/pagoupix/pagoupix-api/internal/cache"
	"github.com/pagoupix/pagoupix-api/internal/client"
	"github.com/pagoupix/pagoupix-api/internal/config"
	"github.com/pagoupix/pagoupix-api/internal/repo"
	"github.com/pagoupix/pagoupix-api/internal/scheduler"
	"github.com/pagoupix/pagoupix-api/internal/service"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	migrate := flag.Bool("migrate", false, "apply the database schema before serving")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*migrate); err != nil {
		slog.Error("pagoupix api stopped", "err", err)
		os.Exit(1)
	}
}

func run(migrate bool) error {
	cfg, err := config.LoadAll()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repo.OpenPostgres(ctx, cfg.Database.PostgresURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := repo.Migrate(ctx, db); err != nil {
			return err
		}
		slog.Info("database schema applied")
	}

	var qrCache cache.QRCache = cache.Noop{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, qr cache disabled", "addr", cfg.Redis.Address, "err", err)
		} else {
			qrCache = cache.NewRedisCache(rdb, cfg.Redis.TTL)
		}
	}

	wapi := client.NewWAPIClient(cfg.WAPI.BaseURL, cfg.WAPI.Timeout)
	asaas := client.NewAsaasClient(cfg.Asaas.SandboxURL, cfg.Asaas.ProductionURL, cfg.Asaas.Timeout)

	settings := repo.NewPostgresSettingsRepo(db)
	conns := service.NewConnectionManager(
		repo.NewPostgresConnectionRepo(db),
		settings,
		wapi,
		qrCache,
		cfg.WAPI.QRMinInterval,
	)
	clients := service.NewClientService(repo.NewPostgresClientRepo(db))

	poller, err := scheduler.New("connection-poller", cfg.Poller.Interval, conns.RefreshPending)
	if err != nil {
		return err
	}
	poller.Start()
	defer poller.Stop()

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           loggingMiddleware(api.Router(api.NewHandler(poller, asaas, settings, conns, clients))),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("pagoupix api starting",
			"addr", cfg.Server.Address,
			"poll_interval", cfg.Poller.Interval.String(),
			"redis", cfg.Redis.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
