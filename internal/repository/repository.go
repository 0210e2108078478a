package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	pkgerrors "TourCore/pkg/errors"
)

// updateVersioned 乐观锁更新：只有库中版本等于 expected 时才写入，并把版本加一
func updateVersioned(ctx context.Context, db *gorm.DB, entity, id string, rec interface{}, expected int64) error {
	res := db.WithContext(ctx).
		Model(rec).
		Where("version = ?", expected).
		Select("*").
		Omit("created_at", "deleted_at").
		Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update %s %s: %w", entity, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.Conflict(entity, id, expected)
	}
	return nil
}

// first 读主库，避免读到副本上的旧版本后再写
func first(ctx context.Context, db *gorm.DB, entity, id string, dst interface{}, pk int64) error {
	err := db.WithContext(ctx).Clauses(dbresolver.Write).First(dst, pk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFoundError(entity, id)
	}
	if err != nil {
		return fmt.Errorf("load %s %s: %w", entity, id, err)
	}
	return nil
}
