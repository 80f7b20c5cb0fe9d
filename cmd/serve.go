package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charles-oliveira/web-2/api"
	"github.com/charles-oliveira/web-2/auth"
	"github.com/charles-oliveira/web-2/db"
	"github.com/charles-oliveira/web-2/events"
	"github.com/charles-oliveira/web-2/logger"
	"github.com/charles-oliveira/web-2/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if migrateFirst {
				dialect, url, err := dsn(cfg)
				if err != nil {
					return err
				}
				if err := db.RunMigrations(dialect, url); err != nil {
					return err
				}
				log.Info("migrations applied", logger.FieldOperation, logger.OpMigrate)
			}

			storage, err := openStorage()
			if err != nil {
				return err
			}
			defer storage.Close()

			return serve(ctx, storage)
		},
	}

	cmd.Flags().BoolVar(&migrateFirst, "migrate", true, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, storage *db.Storage) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	var pub events.Publisher = events.Nop{}
	if cfg.AMQP.URL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			return err
		}
		pub = amqpPub
	}
	defer pub.Close()

	engine := service.NewEngine(storage, service.EngineConfig{
		CacheSize:     cfg.Summary.CacheSize,
		CacheTTL:      cfg.Summary.CacheTTL,
		Location:      loc,
		GlobalEnabled: cfg.Reports.GlobalEnabled,
	}, log)
	gateway := service.NewGateway(storage, engine, pub, log)

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.NewHandler(gateway, tokens, storage, log), log)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.FieldOperation, logger.OpStartup, "address", srv.Addr, "driver", string(storage.Dialect()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", logger.FieldOperation, logger.OpShutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func shutdownTimeout() time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}
