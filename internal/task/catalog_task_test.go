package task

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"petshop_redirect_v1_202608/internal/model"
	"petshop_redirect_v1_202608/internal/repository"
	"petshop_redirect_v1_202608/internal/service"
	"petshop_redirect_v1_202608/pkg/utils"
)

// ==================== 测试环境 ====================

func setupTaskTest(t *testing.T, ttlHours int, body string) (*CatalogTask, repository.CatalogCacheRepository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.PluginSetting{}, &model.CatalogCacheEntry{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	settingsRepo := repository.NewSettingsRepository(db)
	if err := settingsRepo.SetAll(context.Background(), map[string]string{
		model.SettingKeyAPIURL:        server.URL,
		model.SettingKeyCacheTTLHours: strconv.Itoa(ttlHours),
	}); err != nil {
		t.Fatalf("写入设置失败: %v", err)
	}

	settings := service.NewSettingsService(settingsRepo)
	cacheRepo := repository.NewCatalogCacheRepository(db)
	catalog := service.NewCatalogService(cacheRepo, settings, utils.NewCatalogClient())

	return NewCatalogTask(catalog, settings, cacheRepo), cacheRepo
}

// ==================== 单元测试 ====================

func TestCatalogTask_WarmupFillsCache(t *testing.T) {
	task, cacheRepo := setupTaskTest(t, 1, `[{"name":"Cats","children":[]}]`)
	ctx := context.Background()

	task.warmup(ctx)

	entry, err := cacheRepo.Get(ctx, model.CatalogCacheKey)
	if err != nil {
		t.Fatalf("读取缓存失败: %v", err)
	}
	if entry == nil {
		t.Fatal("预热后缓存行应存在")
	}
}

func TestCatalogTask_PurgeKeepsStaleFallbackWindow(t *testing.T) {
	task, cacheRepo := setupTaskTest(t, 1, `[]`)
	ctx := context.Background()
	now := time.Now()

	// 刚过期半小时：还在一个 TTL 的兜底窗口内，不能删
	if err := cacheRepo.Put(ctx, model.CatalogCacheKey, []byte(`[]`), now.Add(-30*time.Minute)); err != nil {
		t.Fatalf("写入缓存失败: %v", err)
	}
	task.purgeJob(ctx)
	if entry, _ := cacheRepo.Get(ctx, model.CatalogCacheKey); entry == nil {
		t.Fatal("兜底窗口内的行不该被清理")
	}

	// 过期超过一个 TTL：清掉
	if err := cacheRepo.Put(ctx, model.CatalogCacheKey, []byte(`[]`), now.Add(-2*time.Hour)); err != nil {
		t.Fatalf("写入缓存失败: %v", err)
	}
	task.purgeJob(ctx)
	if entry, _ := cacheRepo.Get(ctx, model.CatalogCacheKey); entry != nil {
		t.Fatal("过期太久的行应被清理")
	}
}

func TestCatalogTask_StartStop(t *testing.T) {
	task, _ := setupTaskTest(t, 1, `[{"name":"Cats","children":[]}]`)

	task.Start()
	task.Stop()
}
