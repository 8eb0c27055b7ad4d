package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"batteryswap/backend/libs/db"
	libredis "batteryswap/backend/libs/redis"
	"batteryswap/backend/services/kiosk-agent/internal/config"
	"batteryswap/backend/services/kiosk-agent/internal/flow"
	httpserver "batteryswap/backend/services/kiosk-agent/internal/http"
	"batteryswap/backend/services/kiosk-agent/internal/journal"
	"batteryswap/backend/services/kiosk-agent/internal/metrics"
	"batteryswap/backend/services/kiosk-agent/internal/realtime"
)

// journalStore is what the app needs from a journal backend.
type journalStore interface {
	flow.Journal
	httpserver.JournalReader
}

// App wires all dependencies for the kiosk agent.
type App struct {
	server  *httpserver.Server
	channel realtime.Channel
	flow    *flow.Flow
	db      *sql.DB
	redis   *goredis.Client
	logger  *zap.Logger
}

// New builds the application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	store, err := a.openJournal(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	channel, err := a.openChannel(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.channel = channel

	registry := metrics.NewRegistry()
	collector := metrics.NewCollector(registry, cfg.Station.ID)

	kiosk, err := flow.New(channel, store, collector, cfg.Station.ID, logger.Named("flow"))
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := kiosk.Start(); err != nil {
		a.Close()
		return nil, err
	}
	a.flow = kiosk

	router := httpserver.NewRouter(httpserver.Routes{
		Health:       httpserver.NewHealthHandler(),
		Metrics:      metrics.Handler(registry),
		State:        httpserver.NewStateHandler(kiosk),
		Start:        httpserver.NewStartHandler(kiosk),
		Confirm:      httpserver.NewConfirmHandler(kiosk, logger),
		Back:         httpserver.NewBackHandler(kiosk),
		DismissAlert: httpserver.NewDismissAlertHandler(kiosk),
		Journal:      httpserver.NewJournalHandler(store, cfg.Station.ID, logger),
	}, logger.Named("http"))
	a.server = httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return a, nil
}

func (a *App) openJournal(ctx context.Context, cfg *config.Config) (journalStore, error) {
	if !cfg.JournalEnabled() {
		a.logger.Info("event journal disabled")
		return journal.Noop{}, nil
	}
	if cfg.Journal.Migrate {
		if err := journal.Migrate(cfg.Journal.DSN); err != nil {
			return nil, err
		}
	}
	sqlDB, err := db.NewPostgresDB(ctx, cfg.Journal.DSN)
	if err != nil {
		return nil, fmt.Errorf("app: open journal db: %w", err)
	}
	a.db = sqlDB
	return journal.NewRepository(sqlDB), nil
}

func (a *App) openChannel(ctx context.Context, cfg *config.Config) (realtime.Channel, error) {
	switch cfg.Channel.Transport {
	case config.TransportRedis:
		client, err := libredis.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("app: connect redis: %w", err)
		}
		a.redis = client
		feed, err := realtime.NewRedisFeed(client, cfg.Redis.Channel, a.logger.Named("redisfeed"))
		if err != nil {
			return nil, err
		}
		return feed, nil
	default:
		client, err := realtime.NewClient(realtime.Options{
			URL:            cfg.Channel.URL,
			Namespace:      cfg.Channel.Namespace,
			WriteTimeout:   cfg.WriteTimeout(),
			ReconnectDelay: cfg.ReconnectDelay(),
			PingWindow:     cfg.PingWindow(),
		}, a.logger.Named("socketio"))
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Run starts the channel and the HTTP server and stops both when either ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		if err := a.channel.Run(ctx); err != nil {
			errCh <- fmt.Errorf("channel: %w", err)
			return
		}
		errCh <- nil
	}()
	go func() {
		if err := a.server.Run(ctx); err != nil {
			errCh <- fmt.Errorf("http: %w", err)
			return
		}
		errCh <- nil
	}()

	first := <-errCh
	cancel()
	second := <-errCh
	return errors.Join(first, second)
}

// Close releases resources.
func (a *App) Close() {
	if a.flow != nil {
		if err := a.flow.Close(); err != nil {
			a.logger.Warn("failed to close flow", zap.Error(err))
		}
	} else if a.channel != nil {
		_ = a.channel.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
