package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petshop_redirect_v1_202608/internal/model"
)

// ==================== CatalogCacheRepository 目录缓存仓库 ====================

// CatalogCacheRepository 目录缓存行仓库接口
// 一个 cache_key 只有一行，写入永远整行替换
type CatalogCacheRepository interface {
	Get(ctx context.Context, key string) (*model.CatalogCacheEntry, error)
	Put(ctx context.Context, key string, payload []byte, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ==================== 实现 ====================

type catalogCacheRepo struct {
	db *gorm.DB
}

// NewCatalogCacheRepository 创建目录缓存仓库
func NewCatalogCacheRepository(db *gorm.DB) CatalogCacheRepository {
	return &catalogCacheRepo{db: db}
}

// Get 读取缓存行，不存在返回 nil（过期判断交给调用方）
func (r *catalogCacheRepo) Get(ctx context.Context, key string) (*model.CatalogCacheEntry, error) {
	var entry model.CatalogCacheEntry
	err := r.db.WithContext(ctx).Where("cache_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Put 写入/覆盖缓存行 (UPSERT，last-writer-wins)
// 并发 miss 各自回源、各自覆盖是预期行为，不加锁
func (r *catalogCacheRepo) Put(ctx context.Context, key string, payload []byte, expiresAt time.Time) error {
	entry := model.CatalogCacheEntry{
		CacheKey:  key,
		Payload:   payload,
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

// Delete 无条件删除缓存行
// 缓存行没有保留价值，物理删除，免得软删行占着 cache_key 唯一索引
func (r *catalogCacheRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("cache_key = ?", key).
		Delete(&model.CatalogCacheEntry{}).Error
}

// PurgeExpiredBefore 清理在 cutoff 之前就已过期的行
// cutoff 由调用方留出陈旧兜底窗口，别传 time.Now()
func (r *catalogCacheRepo) PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("expires_at < ?", cutoff).
		Delete(&model.CatalogCacheEntry{})
	return result.RowsAffected, result.Error
}
