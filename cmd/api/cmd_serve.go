package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"school-supply-tracker-api-server/internal/api/routes"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/logger"
	"school-supply-tracker-api-server/internal/metrics"
	"school-supply-tracker-api-server/internal/s3"
	"school-supply-tracker-api-server/internal/services"
	"school-supply-tracker-api-server/internal/socket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Document store
	st, err := openStore(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	// 2. Revoked sessions
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	// 3. Signature uploads
	uploader, err := s3.NewUploader(ctx, cfg.S3)
	if err != nil {
		return err
	}

	hub := socket.NewHub()
	m := metrics.New()
	identity := auth.NewIdentity(st.users, auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL()), auth.NewRedisRevoker(rdb), hub)
	inventory := &services.InventoryService{Items: st.items, Hub: hub}

	if cfg.Seed.DefaultItems {
		if _, err := inventory.SeedDefaults(ctx); err != nil {
			return err
		}
	}

	router := routes.SetupRouter(cfg.Server, routes.Deps{
		Identity:  identity,
		Inventory: inventory,
		Pickups:   &services.PickupService{Items: st.items, Ledger: st.pickups, Blobs: uploader, Hub: hub, Metrics: m},
		Users:     &services.UserService{Users: st.users, Roles: identity},
		Hub:       hub,
		Metrics:   m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", "port", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
