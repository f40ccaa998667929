package model

// ==================== 设置键名 ====================

// 四个设置项各占一行，对标 WP options 表里的 pr_* 选项
const (
	SettingKeyAPIURL            = "pr_api_url"
	SettingKeyCacheTTLHours     = "pr_cache_ttl_hours"
	SettingKeyRedirectOnSingle  = "pr_redirect_on_single"
	SettingKeyRedirectInListing = "pr_redirect_in_listing"
)

// PluginSetting 插件设置的 KV 行
type PluginSetting struct {
	BaseModel
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"size:1024"`
}

func (PluginSetting) TableName() string {
	return "plugin_settings"
}
