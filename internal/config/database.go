package config

import (
	"github.com/cockroachdb/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"alfredoptarigan/hiring-pipeline/internal/logger"
	"alfredoptarigan/hiring-pipeline/internal/models"
)

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.Server.Env == "development" {
		logLevel = gormlogger.Info
	}

	db, err := OpenDatabase(cfg.GetDatabaseDSN(), logLevel)
	if err != nil {
		return nil, err
	}

	logger.Infof("✅ Database connected successfully")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Infof("✅ Database migration completed")

	return db, nil
}

// OpenDatabase connects to postgres without migrating.
func OpenDatabase(dsn string, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Document{},
		&models.Career{},
		&models.Interview{},
		&models.TransactionRecord{},
		&models.Screening{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}
