package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// 目录接口要求快速失败：缓存 miss 时是同步回源，拖久了会拖死前台请求
const catalogFetchTimeout = 5 * time.Second

// NewCatalogClient 创建目录 API 的 Resty 客户端
// 它是全系统统一的出站请求入口
func NewCatalogClient() *resty.Client {
	return resty.New().
		SetTimeout(catalogFetchTimeout).
		SetHeader("User-Agent", "Petshop-Redirect/1.1").
		SetHeader("Accept", "application/json")
}
