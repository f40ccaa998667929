package service

import (
	"context"

	"petshop_redirect_v1_202608/internal/model"
)

// ==================== RedirectService 前台跳转调度 ====================

// RedirectDecision 一次前台商品请求的终态
type RedirectDecision string

const (
	DecisionNotApplicable RedirectDecision = "not_applicable" // 不是商品页
	DecisionNoRedirect    RedirectDecision = "no_redirect"    // 正常渲染
	DecisionRedirect      RedirectDecision = "redirect"       // 302 跳转
)

// RedirectService 决定前台商品请求是否跳转
type RedirectService struct {
	settings *SettingsService
	catalog  *CatalogService
}

// NewRedirectService 创建跳转调度服务
func NewRedirectService(settings *SettingsService, catalog *CatalogService) *RedirectService {
	return &RedirectService{
		settings: settings,
		catalog:  catalog,
	}
}

// Resolve 按固定顺序评估一次商品页请求
// 开关关闭 -> 目录不可用 -> 记录为空，任何一步不满足都落在"正常渲染"。
// 目录可用性每次重新走缓存判断：目录挂掉后，最多一个 TTL 周期内全部跳转自动熄火。
func (s *RedirectService) Resolve(ctx context.Context, product *model.Product) (RedirectDecision, string, error) {
	if product == nil {
		return DecisionNotApplicable, "", nil
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return DecisionNoRedirect, "", err
	}
	if !cfg.RedirectOnSingle {
		return DecisionNoRedirect, "", nil
	}

	if !s.catalog.IsAvailable(ctx) {
		return DecisionNoRedirect, "", nil
	}

	if !product.HasRedirect() {
		return DecisionNoRedirect, "", nil
	}

	return DecisionRedirect, product.RedirectURL, nil
}
