package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"petshop_redirect_v1_202608/internal/repository"
	"petshop_redirect_v1_202608/internal/service"
)

// ==================== CatalogTask 目录缓存维护任务 ====================

// CatalogTask 目录缓存的后台维护
// 读路径本身是读穿透的，这里只做两件事：
// 1. 启动时预热一次，别让第一个后台请求扛冷启动的回源延迟
// 2. 定期清掉过期太久的缓存行，过期一个 TTL 以内的留着当回源失败的兜底
type CatalogTask struct {
	Catalog   *service.CatalogService
	Settings  *service.SettingsService
	CacheRepo repository.CatalogCacheRepository
	Cron      *cron.Cron
}

// NewCatalogTask 创建目录维护任务
func NewCatalogTask(catalog *service.CatalogService, settings *service.SettingsService, cacheRepo repository.CatalogCacheRepository) *CatalogTask {
	return &CatalogTask{
		Catalog:   catalog,
		Settings:  settings,
		CacheRepo: cacheRepo,
		Cron:      cron.New(cron.WithSeconds()), // 支持秒级控制
	}
}

// Start 启动定时任务
func (t *CatalogTask) Start() {
	// 首次预热
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		log.Println("[Task] 服务启动，正在预热目录缓存...")
		t.warmup(ctx)
	}()

	// 定时清理，每 30 分钟一次
	_, err := t.Cron.AddFunc("0 0/30 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		t.purgeJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动目录维护定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("[Task] 目录缓存维护任务已启动 (每30分钟清理一次)")
}

// Stop 停止定时任务
func (t *CatalogTask) Stop() {
	t.Cron.Stop()
	log.Println("[Task] 目录缓存维护任务已停止")
}

// warmup 预热：走一遍正常的读穿透即可
func (t *CatalogTask) warmup(ctx context.Context) {
	tree, err := t.Catalog.GetCatalog(ctx)
	if err != nil {
		log.Printf("[Task] 目录预热失败: %v", err)
		return
	}
	if tree.IsEmpty() {
		log.Println("[Task] 目录预热完成，但目录为空（远端可能不可用）")
		return
	}
	log.Printf("[Task] 目录预热完成，共 %d 个分类", len(tree))
}

// purgeJob 清理过期太久的缓存行
// cutoff 往回多留一个 TTL：刚过期的行是回源失败时的陈旧兜底，不能删
func (t *CatalogTask) purgeJob(ctx context.Context) {
	cfg, err := t.Settings.Get(ctx)
	if err != nil {
		log.Printf("[Task] 读取设置失败，跳过本轮清理: %v", err)
		return
	}

	cutoff := time.Now().Add(-cfg.CacheTTL())
	purged, err := t.CacheRepo.PurgeExpiredBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[Task] 缓存清理失败: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("[Task] 已清理 %d 条过期缓存", purged)
	}
}
