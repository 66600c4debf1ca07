package infra

import (
	"fmt"
	"time"

	"tillpos/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectMaxAttempts = 5
	connectBaseBackoff = time.Second
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate.
//
// Connection attempts are retried with exponential backoff up to
// connectMaxAttempts: a cold Postgres container routinely loses the race
// against the app at startup. Request-time errors are never retried here —
// financial operations must not be silently re-attempted.
func NewDatabase(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	backoff := connectBaseBackoff
	for attempt := 1; attempt <= connectMaxAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			if sqlDB, pingErr := db.DB(); pingErr == nil {
				if err = sqlDB.Ping(); err == nil {
					break
				}
			} else {
				err = pingErr
			}
		}
		if attempt == connectMaxAttempts {
			return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", connectMaxAttempts, err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", backoff).Msg("postgres connect failed, retrying")
		time.Sleep(backoff)
		backoff *= 2
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Location{},
		&model.User{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Closure{},
		&model.Receipt{},
		&model.Announcement{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}
