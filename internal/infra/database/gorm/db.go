package gorm

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-ingest/configs"
	"go-ingest/internal/domain/entity"
)

// Open connects gorm to postgres. SQL logging stays silent, statements are traced by the table gateway logs.
func Open(cfg configs.DatabaseConfig) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("fail to connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("fail to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return conn, nil
}

// Migrate creates the entity tables and their composite unique indexes.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(entity.AllModels()...); err != nil {
		return fmt.Errorf("fail to migrate schema: %w", err)
	}
	return nil
}
