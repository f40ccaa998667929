package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"petshop_redirect_v1_202608/internal/model"
)

func setupCacheRepoTest(t *testing.T) CatalogCacheRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.CatalogCacheEntry{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return NewCatalogCacheRepository(db)
}

// ==================== 单元测试 ====================

func TestCatalogCacheRepo_PutGetDelete(t *testing.T) {
	repo := setupCacheRepoTest(t)
	ctx := context.Background()

	// 空库取不到
	entry, err := repo.Get(ctx, model.CatalogCacheKey)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if entry != nil {
		t.Fatalf("空库应返回 nil，实际 %+v", entry)
	}

	expires := time.Now().Add(time.Hour)
	if err := repo.Put(ctx, model.CatalogCacheKey, []byte(`[{"name":"Cats"}]`), expires); err != nil {
		t.Fatalf("Put 失败: %v", err)
	}

	entry, err = repo.Get(ctx, model.CatalogCacheKey)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if entry == nil {
		t.Fatal("写入后应能取到缓存行")
	}
	if string(entry.Payload) != `[{"name":"Cats"}]` {
		t.Errorf("payload = %s", entry.Payload)
	}
	if entry.Expired(time.Now()) {
		t.Error("一小时后过期的行现在不该判为过期")
	}

	if err := repo.Delete(ctx, model.CatalogCacheKey); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	entry, _ = repo.Get(ctx, model.CatalogCacheKey)
	if entry != nil {
		t.Error("删除后不该再取到缓存行")
	}
}

func TestCatalogCacheRepo_PutOverwrites(t *testing.T) {
	repo := setupCacheRepoTest(t)
	ctx := context.Background()

	if err := repo.Put(ctx, model.CatalogCacheKey, []byte(`["old"]`), time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("首次 Put 失败: %v", err)
	}
	newExpires := time.Now().Add(2 * time.Hour)
	if err := repo.Put(ctx, model.CatalogCacheKey, []byte(`["new"]`), newExpires); err != nil {
		t.Fatalf("覆盖 Put 失败: %v", err)
	}

	entry, err := repo.Get(ctx, model.CatalogCacheKey)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if string(entry.Payload) != `["new"]` {
		t.Errorf("覆盖后 payload = %s", entry.Payload)
	}
	if entry.Expired(time.Now().Add(time.Hour)) {
		t.Error("覆盖后应使用新的过期时间")
	}
}

func TestCatalogCacheRepo_PurgeExpiredBefore(t *testing.T) {
	repo := setupCacheRepoTest(t)
	ctx := context.Background()
	now := time.Now()

	// 三行：早已过期 / 刚过期（陈旧兜底窗口内）/ 未过期
	if err := repo.Put(ctx, "pr_api_data_old", []byte(`[]`), now.Add(-3*time.Hour)); err != nil {
		t.Fatalf("Put 失败: %v", err)
	}
	if err := repo.Put(ctx, "pr_api_data_stale", []byte(`[]`), now.Add(-10*time.Minute)); err != nil {
		t.Fatalf("Put 失败: %v", err)
	}
	if err := repo.Put(ctx, "pr_api_data_fresh", []byte(`[]`), now.Add(time.Hour)); err != nil {
		t.Fatalf("Put 失败: %v", err)
	}

	// cutoff 留出一小时兜底窗口，只清最老的那行
	purged, err := repo.PurgeExpiredBefore(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("PurgeExpiredBefore 失败: %v", err)
	}
	if purged != 1 {
		t.Errorf("应清理 1 行，实际 %d", purged)
	}

	if entry, _ := repo.Get(ctx, "pr_api_data_old"); entry != nil {
		t.Error("早已过期的行应被清理")
	}
	if entry, _ := repo.Get(ctx, "pr_api_data_stale"); entry == nil {
		t.Error("兜底窗口内的行不该被清理")
	}
	if entry, _ := repo.Get(ctx, "pr_api_data_fresh"); entry == nil {
		t.Error("未过期的行不该被清理")
	}
}
