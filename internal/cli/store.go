package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olimp/hotel-booking/internal/config"
	"github.com/olimp/hotel-booking/internal/database"
)

// openStore opens the configured database and applies pending migrations.
func openStore(ctx context.Context, cfg config.Config) (*sql.DB, database.Dialect, error) {
	var (
		db      *sql.DB
		dialect database.Dialect
		err     error
	)
	switch database.Dialect(cfg.DBDriver) {
	case database.SQLite:
		dialect = database.SQLite
		db, err = database.OpenSQLite(cfg.SQLitePath)
	case database.MySQL:
		dialect = database.MySQL
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	default:
		return nil, "", fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}
	if err := database.Migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, "", err
	}
	return db, dialect, nil
}
