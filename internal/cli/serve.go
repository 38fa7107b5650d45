package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olimp/hotel-booking/internal/config"
	"github.com/olimp/hotel-booking/internal/handler"
	"github.com/olimp/hotel-booking/internal/middleware"
	"github.com/olimp/hotel-booking/internal/queue"
	"github.com/olimp/hotel-booking/internal/repository"
	"github.com/olimp/hotel-booking/internal/router"
	"github.com/olimp/hotel-booking/internal/service"
	"github.com/olimp/hotel-booking/internal/session"
	"github.com/olimp/hotel-booking/internal/utils"
)

func NewServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			log, err := utils.InitLogger(cfg.Env)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides APP_PORT)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	db, dialect, err := openStore(openCtx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database ready", zap.String("dialect", string(dialect)))

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Warn("redis unavailable: in-memory sessions, rate limit and cache disabled")
	}

	var pub service.EventPublisher
	if cfg.AMQP.Enabled {
		p := queue.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		defer p.Close()
		pub = p
		if cfg.AMQP.Consumer {
			consumer := queue.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, queue.NewLogWriter(cfg.AMQP.LogDir), log)
			go func() { _ = consumer.Run(ctx) }()
		}
	}

	users := repository.NewUserRepo(db)
	rooms := repository.NewRoomRepo(db)
	sessions := session.NewManager(session.NewStore(rdb, cfg.SessionTTL), cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	svc := service.NewReservationService(repository.NewReservationRepo(db, dialect), pub, log)
	cache := middleware.NewResponseCache(cfg.Cache, rdb, log)

	e := router.New(cfg, router.Handlers{
		Health:       handler.NewHealthHandler(db),
		Auth:         handler.NewAuthHandler(users, sessions, cfg.BcryptCost, log),
		Reservations: handler.NewReservationHandler(svc, cache, log),
		Rooms:        handler.NewRoomHandler(rooms),
		Users:        handler.NewUserHandler(users),
		Authors:      handler.NewAuthorHandler(repository.NewAuthorRepo(db)),
	}, sessions, cache, rdb, log)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
