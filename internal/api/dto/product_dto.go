package dto

// ProductResp 商品响应
type ProductResp struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	State        string   `json:"state"`
	PriceAmount  int64    `json:"price_amount"`
	PriceDivisor int64    `json:"price_divisor"`
	CurrencyCode string   `json:"currency_code"`
	Tags         []string `json:"tags"`
	RedirectURL  string   `json:"redirect_url"`

	// 列表页内联下拉的渲染结果，pr_redirect_in_listing 关闭时为空
	RedirectDropdownHTML string `json:"redirect_dropdown_html,omitempty"`
}

// ProductListResp 商品列表响应
type ProductListResp struct {
	Code     int           `json:"code"`
	Message  string        `json:"message"`
	Data     []ProductResp `json:"data"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// MetaboxSaveReq 编辑页 metabox 保存请求
type MetaboxSaveReq struct {
	Nonce       string `form:"nonce" json:"nonce" binding:"required"`
	RedirectURL string `form:"redirect_url" json:"redirect_url"`
}
