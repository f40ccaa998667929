package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"petshop_redirect_v1_202608/internal/model"
	"petshop_redirect_v1_202608/internal/repository"
)

// ==================== CatalogService 目录缓存服务 ====================

// CatalogService 远程目录的读穿透缓存
// miss 时同步回源一次。拉取失败不缓存失败结果：
// 端点挂掉期间每个未命中的请求都会重试回源（沿用原插件行为）。
type CatalogService struct {
	cacheRepo repository.CatalogCacheRepository
	settings  *SettingsService
	client    *resty.Client
}

// NewCatalogService 创建目录服务
func NewCatalogService(cacheRepo repository.CatalogCacheRepository, settings *SettingsService, client *resty.Client) *CatalogService {
	return &CatalogService{
		cacheRepo: cacheRepo,
		settings:  settings,
		client:    client,
	}
}

// ==================== 读取 ====================

// GetCatalog 返回目录树
// 1. 缓存行存在且未过期 -> 直接返回
// 2. 否则回源一次；成功则整行覆盖缓存
// 3. 回源失败时：有过期旧行就拿旧数据兜底（不删行），什么都没有就返回空树
func (s *CatalogService) GetCatalog(ctx context.Context) (model.CatalogTree, error) {
	entry, err := s.cacheRepo.Get(ctx, model.CatalogCacheKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if entry != nil && !entry.Expired(now) {
		return ParseCatalogTree(entry.Payload), nil
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	payload, fetchErr := s.fetch(ctx, cfg.APIURL)
	if fetchErr != nil {
		log.Printf("[Catalog] 目录拉取失败: %v", fetchErr)
		// 拉取失败绝不动已有缓存行；过期旧数据好过没有
		if entry != nil {
			return ParseCatalogTree(entry.Payload), nil
		}
		return nil, nil
	}

	expiresAt := now.Add(cfg.CacheTTL())
	if err := s.cacheRepo.Put(ctx, model.CatalogCacheKey, payload, expiresAt); err != nil {
		// 缓存写失败不影响本次返回，下个请求重新回源
		log.Printf("[Catalog] 缓存写入失败: %v", err)
	}

	return ParseCatalogTree(payload), nil
}

// IsAvailable 目录当前是否可用 = 当前/新拉取的树非空
func (s *CatalogService) IsAvailable(ctx context.Context) bool {
	tree, err := s.GetCatalog(ctx)
	if err != nil {
		return false
	}
	return !tree.IsEmpty()
}

// ==================== 刷新 ====================

// Flush 无条件删掉缓存行，下次读取必然回源
func (s *CatalogService) Flush(ctx context.Context) error {
	return s.cacheRepo.Delete(ctx, model.CatalogCacheKey)
}

// ==================== 回源 ====================

// fetch 拉取远端目录，校验顶层必须是 JSON 数组
// 返回的是远端原始 body，解析丢节点的事交给 ParseCatalogTree
func (s *CatalogService) fetch(ctx context.Context, apiURL string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(apiURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("目录 API 异常 [%d]", resp.StatusCode())
	}

	body := resp.Body()
	var probe []json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("目录 API 返回的不是 JSON 数组: %w", err)
	}

	return body, nil
}
