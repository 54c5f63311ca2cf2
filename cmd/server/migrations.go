package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/taskforge/taskforge-api/internal/platform/postgres"
)

// runMigrations applies any pending schema migrations from the embedded
// migration files. Goose records applied versions in its own table, so
// running at every startup is safe.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{logger: logger.With("component", "migrations")})
	goose.SetBaseFS(postgres.MigrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, postgres.MigrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("database schema up to date")
	return nil
}

// slogGooseLogger forwards goose's log output to the structured logger.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger interface.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger interface. Goose only calls this from
// its CLI paths; here it logs at error level instead of exiting.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
