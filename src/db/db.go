package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// GetDb opens the shared connection on first use.
func GetDb(dsn string) (*gorm.DB, error) {
	if db != nil {
		return db, nil
	}
	_db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		return nil, fmt.Errorf("error establishing connection to database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	zap.L().Info("database connection ready")
	db = _db
	return _db, nil
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}
