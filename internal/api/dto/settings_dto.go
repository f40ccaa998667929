package dto

// SettingsResp 设置读取响应
type SettingsResp struct {
	APIURL            string `json:"api_url"`
	CacheTTLHours     int    `json:"cache_ttl_hours"`
	RedirectOnSingle  bool   `json:"redirect_on_single_enabled"`
	RedirectInListing bool   `json:"redirect_in_listing_enabled"`
}

// SaveSettingsReq 设置保存请求
// 对标原设置表单：nonce 必填，flush_cache 是可选的顺手清缓存
type SaveSettingsReq struct {
	Nonce             string `json:"nonce" binding:"required"`
	APIURL            string `json:"api_url"`
	CacheTTLHours     int    `json:"cache_ttl_hours"`
	RedirectOnSingle  bool   `json:"redirect_on_single_enabled"`
	RedirectInListing bool   `json:"redirect_in_listing_enabled"`
	FlushCache        bool   `json:"flush_cache"`
}
