package main

import (
	"go-pos/internal/config"
	"go-pos/internal/server"
	"go-pos/internal/ws"
	"go-pos/pkg/database"
	"go-pos/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every subcommand needs once the store is open.
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	db   *database.DB
	svcs *server.Services
}

func newRootCmd() *cobra.Command {
	var (
		driver string
		dbPath string
	)

	root := &cobra.Command{
		Use:          "posctl",
		Short:        "Maintenance tasks for the POS store",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&driver, "driver", "", "database driver override (sqlite, postgres, mysql)")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database file override")

	open := func() (*app, error) {
		cfg := config.Load()
		if driver != "" {
			cfg.Database.Driver = driver
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}

		log := logger.New(logger.Config{
			Development: true,
			Level:       "warn",
			Encoding:    "console",
		})

		db, err := database.Connect(database.Config{
			Driver:   cfg.Database.Driver,
			Path:     cfg.Database.Path,
			URL:      cfg.Database.URL,
			LogLevel: "silent",
		})
		if err != nil {
			return nil, err
		}
		if err := server.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}

		return &app{
			cfg:  cfg,
			log:  log,
			db:   db,
			svcs: server.NewServices(cfg, db, ws.Nop{}, log),
		}, nil
	}

	root.AddCommand(
		newResetPasswordCmd(open),
		newCreateUserCmd(open),
		newExportCmd(open),
		newLowStockCmd(open),
	)
	return root
}

type opener func() (*app, error)

func (a *app) close() {
	_ = a.log.Sync()
	_ = a.db.Close()
}
