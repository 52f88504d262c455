package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"

	"tourbook/internal/config"
)

// NewDatabase creates a new PostgreSQL connection pool. If nrApp is
// provided, the New Relic instrumented driver is used so every query
// is traced automatically.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	driver := "postgres"
	if nrApp != nil {
		driver = "nrpostgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Booking traffic is bursty around tour dates but each request
	// holds a connection briefly.
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection.
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
