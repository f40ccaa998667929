package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 远程目录树 ====================

// 远程目录 API 返回的三层结构:
// 分类 -> 子分类 -> 商品。结构在内存里永远整树替换，不做原地修改。

// CatalogProduct 目录叶子节点，唯一可被选中的层级
type CatalogProduct struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// CatalogSubCategory 子分类
type CatalogSubCategory struct {
	Name     string           `json:"name"`
	Products []CatalogProduct `json:"products"`
}

// CatalogCategory 顶层分类
type CatalogCategory struct {
	Name     string               `json:"name"`
	Children []CatalogSubCategory `json:"children"`
}

// CatalogTree 整棵目录树，保持远端返回顺序
type CatalogTree []CatalogCategory

// IsEmpty 树是否为空（拉取失败统一降级成空树）
func (t CatalogTree) IsEmpty() bool {
	return len(t) == 0
}

// ==================== 缓存行 ====================

// 固定缓存键，对标 WP transient 'pr_api_data'
const CatalogCacheKey = "pr_api_data"

// CatalogCacheEntry 目录缓存行
// payload 存远端解析后的原始 JSON，expires_at 在读取时显式判断，
// 不依赖数据库层的任何过期机制。
type CatalogCacheEntry struct {
	BaseModel
	CacheKey  string         `gorm:"size:100;uniqueIndex;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	ExpiresAt time.Time      `gorm:"index"`
}

func (CatalogCacheEntry) TableName() string {
	return "catalog_cache_entries"
}

// Expired 缓存行是否已过期
func (e *CatalogCacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
