package main

import (
	"fmt"

	"github.com/chapavet/marketplace/cmd/config"
	"github.com/chapavet/marketplace/utils/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// bootstrap loads configuration and starts the global logger. The returned
// cleanup flushes the logger.
func bootstrap(component string) (*config.Config, func(), error) {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger.Info("Starting "+component, zap.String("env", cfg.Environment))

	return cfg, func() { _ = logger.Close() }, nil
}

func connectDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	return db, nil
}
