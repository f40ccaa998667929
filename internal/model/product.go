package model

import (
	"github.com/lib/pq"
)

// 商品状态
const (
	ProductStatePublished = "published"
	ProductStateDraft     = "draft"
)

// Product 本站商品
// RedirectURL 是本插件唯一拥有的字段：非空时，前台访问该商品会被 302 跳转走。
// 空字符串恒等于"不跳转"，目录拉取失败绝不能回写/清空这个字段。
type Product struct {
	BaseModel
	// --- 基本信息 ---
	Title       string `gorm:"size:255;index"`
	Slug        string `gorm:"size:255;uniqueIndex"`
	Description string `gorm:"type:text"`
	State       string `gorm:"size:20;index;default:'published'"` // published, draft

	// --- 价格 ---
	PriceAmount  int64  `gorm:"default:0"` // 最小货币单位
	PriceDivisor int64  `gorm:"default:100"`
	CurrencyCode string `gorm:"size:5;default:'GBP'"`

	// --- 标签 (Postgres Array) ---
	Tags pq.StringArray `gorm:"type:text[]"`

	// --- 跳转设置 (插件字段) ---
	RedirectURL string `gorm:"size:512;default:''"` // 空 = 不跳转
}

func (Product) TableName() string {
	return "products"
}

// HasRedirect 是否设置了跳转
func (p *Product) HasRedirect() bool {
	return p.RedirectURL != ""
}
