// Package main provides the itam binary: the HTTP server plus offline
// management commands that work directly against the database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yi-nology/itam/biz/dal/db"
	"github.com/yi-nology/itam/biz/handler"
	"github.com/yi-nology/itam/pkg/config"
	"github.com/yi-nology/itam/pkg/database"
	"github.com/yi-nology/itam/pkg/logger"
)

var (
	// Set via -ldflags "-X main.version=... -X main.gitCommit=... -X main.buildTime=...".
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"

	configFlag string
)

// app holds the pieces every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// bootstrap loads configuration, builds the logger, opens the database and
// runs migrations.
func bootstrap() (*app, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	logger.RedirectHertz(log)

	conn, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(conn); err != nil {
		_ = database.Close(conn)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &app{cfg: cfg, logger: log, db: conn}, nil
}

func (a *app) close() {
	_ = database.Close(a.db)
	_ = a.logger.Sync()
}

func main() {
	handler.AppVersion = version
	handler.AppGitCommit = gitCommit
	handler.AppBuildTime = buildTime

	rootCmd := &cobra.Command{
		Use:   "itam",
		Short: "IT asset ledger: software licenses and schema-defined assets",
		Long: `itam tracks software licenses, seats and expiry dates, and a catalog of
generic assets whose fields are defined by admin-configured asset types.

Run "itam serve" to start the HTTP API. The remaining commands operate
directly on the configured database.`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
