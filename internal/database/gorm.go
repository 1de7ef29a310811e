package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GORMConfig is shared by every relational handle. Driver errors are translated so
// unique violations surface as gorm.ErrDuplicatedKey.
func GORMConfig() *gorm.Config {
	return &gorm.Config{
		DisableAutomaticPing: true,
		TranslateError:       true,
		Logger:               logger.Default.LogMode(logger.Silent),
	}
}

// OpenPostgres opens a PostgreSQL handle using the provided DSN.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), GORMConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	return db, nil
}

// OpenSQLite opens a SQLite handle. Accepts sqlite://path or a file: DSN.
func OpenSQLite(url string) (*gorm.DB, error) {
	dsn := strings.TrimPrefix(url, "sqlite://")
	if dsn == "" {
		return nil, fmt.Errorf("sqlite path must not be empty")
	}

	db, err := gorm.Open(sqlite.Open(dsn), GORMConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	return db, nil
}
