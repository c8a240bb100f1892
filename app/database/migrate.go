package database

import (
	"mediashelf/app/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移目录表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(model.CatalogModels()...)
}
