package db

import (
	"fmt" // Error wrapping
	"securepay/internal/config"
	"securepay/internal/domain" // Importing domain models
	"strings"

	"github.com/glebarez/sqlite" // Pure Go SQLite driver for GORM
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.DBDriver
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.MySQLDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DBDSN))
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDBDriver, cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,                                // Surface gorm.ErrDuplicatedKey on unique violations
		Logger:         logger.Default.LogMode(logger.Warn), // Only slow queries and errors
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// SQLite allows a single writer; one connection avoids SQLITE_BUSY between handlers
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// sqliteDSN turns a file path into a DSN with foreign keys enforced
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Payment{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if stmt := emailCollationSQL(db.Dialector.Name()); stmt != "" {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to make emails case-sensitive: %w", err)
		}
	}
	logrus.Debug("Migration completed.") // Log successful migration
	return nil
}

// emailCollationSQL returns the statement making email comparisons exact.
// MySQL's default utf8mb4 collation ignores case; SQLite compares bytes already.
func emailCollationSQL(dialect string) string {
	if dialect != config.DriverMySQL {
		return ""
	}
	return "ALTER TABLE users MODIFY email VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
