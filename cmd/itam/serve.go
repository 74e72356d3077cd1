package main

import (
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yi-nology/itam/biz/router"
	"github.com/yi-nology/itam/biz/service"
	"github.com/yi-nology/itam/pkg/auth"
	"github.com/yi-nology/itam/pkg/lock"
	"github.com/yi-nology/itam/pkg/redis"
	"github.com/yi-nology/itam/pkg/storage"
)

const (
	notifyLockKey     = "itam:lock:notifications"
	notifyLockTTL     = 2 * time.Minute
	notifyLockTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if addr != "" {
				a.cfg.Server.Address = addr
			}

			tokens, err := auth.NewTokenManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL)
			if err != nil {
				return fmt.Errorf("auth: %w", err)
			}
			store, err := storage.New(a.cfg)
			if err != nil {
				return fmt.Errorf("storage: %w", err)
			}

			var notifyLock lock.Locker
			client, err := redis.NewClient(cmd.Context(), a.cfg.Redis)
			if err != nil {
				return err
			}
			if client != nil {
				defer client.Close()
				notifyLock = lock.New(client, notifyLockKey, notifyLockTTL, notifyLockTimeout)
				a.logger.Info("redis write lock enabled", zap.String("address", a.cfg.Redis.Address))
			}

			svc := service.NewService(a.db, store, a.cfg, tokens, a.logger)

			h := server.Default(server.WithHostPorts(a.cfg.Server.Address))
			router.Register(h, a.cfg, svc, notifyLock)

			a.logger.Info("server starting",
				zap.String("address", a.cfg.Server.Address),
				zap.String("storage", store.Type()),
				zap.String("version", version),
			)
			h.Spin()
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.address")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			a.logger.Info("database migrated", zap.String("driver", a.cfg.Database.Driver))
			return nil
		},
	}
}
