package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/mymmrac/telego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"bazaar/internal/config"
	"bazaar/internal/domain/service/session"
	"bazaar/internal/infrastructure/leaderboard"
	"bazaar/internal/infrastructure/notifier"
	"bazaar/internal/infrastructure/persistence"
	"bazaar/internal/infrastructure/telemetry"
	"bazaar/internal/server"
	"bazaar/internal/transport/bot"
	"bazaar/internal/transport/bot/handler"
	"bazaar/internal/worker"
	"bazaar/pkg/application/connectors"
	"bazaar/pkg/application/modules"
	"bazaar/pkg/contextx"
	"bazaar/pkg/logx"
	"bazaar/pkg/middlewarex"
	"bazaar/pkg/probe"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const httpServerReadHeaderTimeout = 5 * time.Second

func Run(ctx context.Context, cfg config.Config) error {
	rules, err := config.LoadRules(cfg.Game.RulesFile)
	if err != nil {
		return fmt.Errorf("config.LoadRules: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct
	)

	sessions := session.NewService(rules).
		WithTTL(cfg.Game.SessionTTL).
		WithObserver(telemetry.NewPrometheus(registry))

	checks := map[string]probe.Check{}

	// Журнал партий
	if cfg.Postgres.Enabled() {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db := pg.Client(ctx)
		defer pg.Close(ctx)

		sessions = sessions.WithRunRepository(persistence.NewRunRepository(db))
		checks["postgres"] = db.PingContext
	} else {
		logger(ctx).Warn("PG_DSN is empty, run journal disabled")
	}

	// Таблица лидеров
	if cfg.Redis.Enabled() {
		rds := &connectors.Redis{
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			Address:        cfg.Redis.Address,
			DatabaseNumber: cfg.Redis.DB,
			PoolSize:       cfg.Redis.PoolSize,
		}
		client := rds.Client(ctx)
		defer rds.Close(ctx)

		sessions = sessions.WithLeaderboard(leaderboard.NewRedis(client))
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	} else {
		logger(ctx).Warn("REDIS_ADDRESS is empty, leaderboard disabled")
	}

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, newHTTPServer(ctx, cfg, sessions))

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeAddress,
		Checks:        checks,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsAddress,
		Gatherer:      registry,
	}.Run(ctx, g)

	if cfg.Bot.Enabled() {
		if err := runBot(ctx, g, cfg, sessions); err != nil {
			return fmt.Errorf("runBot: %w", err)
		}
	} else {
		logger(ctx).Info("BOT_TOKEN is empty, telegram bot disabled")
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func newHTTPServer(ctx context.Context, cfg config.Config, sessions *session.Service) *http.Server {
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
	)

	server.NewServer(
		server.NewSessionServer(sessions),
	).RegisterRoutes(router)

	return &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}

// runBot поднимает Telegram-бота. Если настроен Redis, переход к следующему
// клиенту откладывается через asynq.
func runBot(ctx context.Context, g *errgroup.Group, cfg config.Config, sessions *session.Service) error {
	tgBot, err := telego.NewBot(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("telego.NewBot: %w", err)
	}

	presenter := notifier.NewTelegramBot(tgBot)

	botHandler := handler.New(sessions, presenter).
		WithChatTTL(cfg.Game.SessionTTL)

	if cfg.Redis.Enabled() {
		redisConnection := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		client := asynq.NewClient(redisConnection)

		go func() {
			<-ctx.Done()

			if err := client.Close(); err != nil {
				logger(ctx).Error("asynqClient.Close", logx.Error(err))
			}
		}()

		botHandler = botHandler.WithScheduler(worker.NewAdvanceScheduler(client, cfg.Game.AdvanceDelay))

		advance := worker.NewAdvanceHandler(sessions, presenter)

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DB,
		}.Run(ctx, g, modules.AsynqQueues{worker.QueueDefault: 1}, modules.AsynqHandler{
			Pattern: worker.TaskAdvance,
			Handle:  advance.Handle,
		})
	}

	b := bot.New(tgBot, botHandler, cfg.Bot.AllowedChats)

	g.Go(func() error {
		if err := b.Run(ctx); err != nil {
			return fmt.Errorf("bot.Run: %w", err)
		}

		return nil
	})

	logger(ctx).Info("telegram bot configured", slog.Int("allowed-chats", len(cfg.Bot.AllowedChats)))

	return nil
}
