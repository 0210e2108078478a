package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"TourCore/internal/model"
	"TourCore/pkg/logger"
)

// Models 需要迁移的全部表
func Models() []interface{} {
	return []interface{}{
		&model.TourRecord{},
		&model.ItineraryRecord{},
		&model.BookingRecord{},
	}
}

// Migrate 运行数据库迁移，创建所有表
func Migrate() error {
	db := DB()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	logger.Logger.Info("Starting database migration...")

	if err := db.AutoMigrate(Models()...); err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
