package main

import (
	"fmt"
	"os"

	"ncic-pledge/internal/config"
	"ncic-pledge/internal/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Version = "dev"

// env is the connected runtime shared by subcommands
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "pledgectl",
		Short:   "Maintenance tool for the pledge tracking backend",
		Version: Version,
	}

	rootCmd.AddCommand(seedAdminCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect loads config and opens the database
func connect() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.AppMode, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	decimal.MarshalJSONWithoutQuotes = true
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	_ = config.CloseDatabase(e.db)
	_ = e.log.Sync()
}
