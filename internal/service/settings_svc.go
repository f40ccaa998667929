package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"petshop_redirect_v1_202608/internal/model"
	"petshop_redirect_v1_202608/internal/repository"
)

// ==================== SettingsService 插件设置服务 ====================

// 默认值：首次读取即生效，不落库
const (
	DefaultAPIURL        = "https://big-games.shop/wp-json/wc-products/v1/list"
	DefaultCacheTTLHours = 1
)

// PluginSettings 四个设置项的展开形态
type PluginSettings struct {
	APIURL            string `json:"api_url"`
	CacheTTLHours     int    `json:"cache_ttl_hours"`
	RedirectOnSingle  bool   `json:"redirect_on_single_enabled"`
	RedirectInListing bool   `json:"redirect_in_listing_enabled"`
}

// CacheTTL 小时数换算成 time.Duration
func (s PluginSettings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLHours) * time.Hour
}

// SettingsService 插件设置服务
type SettingsService struct {
	repo repository.SettingsRepository
}

// NewSettingsService 创建设置服务
func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// ==================== 读取 ====================

// Get 读取全部设置，缺失/坏掉的键用默认值补齐
func (s *SettingsService) Get(ctx context.Context) (PluginSettings, error) {
	values, err := s.repo.GetAll(ctx)
	if err != nil {
		return PluginSettings{}, err
	}

	settings := PluginSettings{
		APIURL:            DefaultAPIURL,
		CacheTTLHours:     DefaultCacheTTLHours,
		RedirectOnSingle:  true,
		RedirectInListing: true,
	}

	if v, ok := values[model.SettingKeyAPIURL]; ok && strings.TrimSpace(v) != "" {
		settings.APIURL = v
	}
	if v, ok := values[model.SettingKeyCacheTTLHours]; ok {
		if hours, err := strconv.Atoi(v); err == nil && hours >= 1 {
			settings.CacheTTLHours = hours
		}
	}
	if v, ok := values[model.SettingKeyRedirectOnSingle]; ok {
		settings.RedirectOnSingle = v == "1"
	}
	if v, ok := values[model.SettingKeyRedirectInListing]; ok {
		settings.RedirectInListing = v == "1"
	}

	return settings, nil
}

// ==================== 保存 ====================

// Save 规范化输入并整体落库
// 沿用原表单的宽容语义：非法输入静默压回安全默认值，不报错
func (s *SettingsService) Save(ctx context.Context, input PluginSettings) (PluginSettings, error) {
	normalized := PluginSettings{
		APIURL:            sanitizeURL(input.APIURL),
		CacheTTLHours:     input.CacheTTLHours,
		RedirectOnSingle:  input.RedirectOnSingle,
		RedirectInListing: input.RedirectInListing,
	}

	if normalized.APIURL == "" {
		normalized.APIURL = DefaultAPIURL
	}
	// 表单约束 min=1：0 或负数都压回 1，避免"永不缓存"或"永久缓存"
	if normalized.CacheTTLHours < 1 {
		normalized.CacheTTLHours = DefaultCacheTTLHours
	}

	err := s.repo.SetAll(ctx, map[string]string{
		model.SettingKeyAPIURL:            normalized.APIURL,
		model.SettingKeyCacheTTLHours:     strconv.Itoa(normalized.CacheTTLHours),
		model.SettingKeyRedirectOnSingle:  boolValue(normalized.RedirectOnSingle),
		model.SettingKeyRedirectInListing: boolValue(normalized.RedirectInListing),
	})
	if err != nil {
		return PluginSettings{}, err
	}

	return normalized, nil
}

// sanitizeURL 对标 esc_url_raw：只接受 http/https 的可解析 URL
func sanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
