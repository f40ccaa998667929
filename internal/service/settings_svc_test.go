package service

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"petshop_redirect_v1_202608/internal/model"
	"petshop_redirect_v1_202608/internal/repository"
)

// ==================== 测试辅助 ====================

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.PluginSetting{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func newSettingsService(t *testing.T) *SettingsService {
	db := setupSettingsTestDB(t)
	return NewSettingsService(repository.NewSettingsRepository(db))
}

// ==================== 单元测试 ====================

func TestSettingsService_Defaults(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	cfg, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("读取设置失败: %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("API URL 默认值不对: %s", cfg.APIURL)
	}
	if cfg.CacheTTLHours != 1 {
		t.Errorf("TTL 默认值不对: %d", cfg.CacheTTLHours)
	}
	if !cfg.RedirectOnSingle || !cfg.RedirectInListing {
		t.Error("两个开关默认都应为开")
	}
}

func TestSettingsService_SaveAndGet(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, PluginSettings{
		APIURL:            "https://x/list",
		CacheTTLHours:     2,
		RedirectOnSingle:  false,
		RedirectInListing: true,
	})
	if err != nil {
		t.Fatalf("保存设置失败: %v", err)
	}
	if saved.APIURL != "https://x/list" || saved.CacheTTLHours != 2 {
		t.Fatalf("保存返回值不对: %+v", saved)
	}

	cfg, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("读取设置失败: %v", err)
	}
	if cfg.APIURL != "https://x/list" {
		t.Errorf("API URL 没保存上: %s", cfg.APIURL)
	}
	if cfg.CacheTTLHours != 2 {
		t.Errorf("TTL 没保存上: %d", cfg.CacheTTLHours)
	}
	if cfg.RedirectOnSingle {
		t.Error("单页开关应为关")
	}
	if !cfg.RedirectInListing {
		t.Error("列表开关应为开")
	}
}

func TestSettingsService_SilentCoercion(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	// 非法 URL 和非法 TTL 静默压回默认值，不报错
	saved, err := svc.Save(ctx, PluginSettings{
		APIURL:        "javascript:alert(1)",
		CacheTTLHours: 0,
	})
	if err != nil {
		t.Fatalf("宽容契约下不应报错: %v", err)
	}
	if saved.APIURL != DefaultAPIURL {
		t.Errorf("非法 URL 应压回默认值: %s", saved.APIURL)
	}
	if saved.CacheTTLHours != 1 {
		t.Errorf("非法 TTL 应压回 1: %d", saved.CacheTTLHours)
	}

	saved, err = svc.Save(ctx, PluginSettings{APIURL: "   ", CacheTTLHours: -5})
	if err != nil {
		t.Fatalf("宽容契约下不应报错: %v", err)
	}
	if saved.APIURL != DefaultAPIURL || saved.CacheTTLHours != 1 {
		t.Errorf("空白 URL / 负 TTL 应压回默认值: %+v", saved)
	}
}

func TestSettingsService_GarbageRowsFallBack(t *testing.T) {
	db := setupSettingsTestDB(t)
	repo := repository.NewSettingsRepository(db)
	svc := NewSettingsService(repo)
	ctx := context.Background()

	// 直接往库里塞坏数据，读取时也要回落默认值
	err := repo.SetAll(ctx, map[string]string{
		model.SettingKeyCacheTTLHours: "banana",
		model.SettingKeyAPIURL:        "",
	})
	if err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	cfg, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("读取设置失败: %v", err)
	}
	if cfg.CacheTTLHours != 1 {
		t.Errorf("坏 TTL 应回落默认值: %d", cfg.CacheTTLHours)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("空 URL 应回落默认值: %s", cfg.APIURL)
	}
}
