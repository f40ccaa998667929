package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petshop_redirect_v1_202608/internal/model"
)

// ==================== SettingsRepository 设置仓库 ====================

// SettingsRepository 插件设置 KV 仓库接口
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetAll(ctx context.Context) (map[string]string, error)
	SetAll(ctx context.Context, values map[string]string) error
}

// ==================== 实现 ====================

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建设置仓库
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get 读取单个设置项，第二个返回值表示键是否存在
func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var row model.PluginSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

// GetAll 一次读出全部设置项
func (r *settingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []model.PluginSetting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// SetAll 批量写入设置项 (UPSERT 逻辑)
// key 冲突时只更新 value，保持 created_at 不动
func (r *settingsRepository) SetAll(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	rows := make([]model.PluginSetting, 0, len(values))
	for k, v := range values {
		rows = append(rows, model.PluginSetting{Key: k, Value: v})
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
}
