package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/focusflow/focusflow-be/internal/config"
	"github.com/focusflow/focusflow-be/internal/models"
)

// Init 初始化 GORM 连接并运行自动迁移
// AutoMigrate 会自动创建表、添加缺失的列、创建约束和索引
func Init(cfg *config.Config) (*gorm.DB, error) {
	// TranslateError 让唯一键冲突变成 gorm.ErrDuplicatedKey，注册时好判断
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.Interval{}); err != nil {
		return nil, err
	}
	return db, nil
}
