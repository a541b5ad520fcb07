package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sdko-org/vertical-padding/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// NewPostgresDB connects with exponential backoff and migrates the buildings
// and runs tables.
func NewPostgresDB(log *logrus.Logger, cfg PostgresConfig) (*gorm.DB, error) {
	return Open(log, cfg.DSN(), cfg.Host, cfg.DBName)
}

// Open is NewPostgresDB for a ready-made DSN.
func Open(logger *logrus.Logger, dsn, host, dbName string) (*gorm.DB, error) {
	log := logger.WithFields(logrus.Fields{
		"component": "database",
		"host":      host,
		"database":  dbName,
	})

	gormCfg := &gorm.Config{
		Logger: newGormLogger(log),
	}

	var db *gorm.DB
	var err error
	const maxRetries = 5
	retryDelay := 2 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
		if err == nil {
			break
		}

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err,
		}).Warn("Database connection failed")

		if attempt < maxRetries {
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	if err != nil {
		log.WithError(err).Error("Failed to connect to database after retries")
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := Migrate(db); err != nil {
		log.WithError(err).Error("Database migration failed")
		return nil, err
	}

	log.Info("Database connection established")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Building{}, &models.PaddingRun{}); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	return nil
}

// Ping reports whether the database answers within the context deadline.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormLogger(entry *logrus.Entry) logger.Interface {
	return logger.New(entry, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
