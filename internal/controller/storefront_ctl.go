package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"petshop_redirect_v1_202608/internal/model"
	"petshop_redirect_v1_202608/internal/repository"
	"petshop_redirect_v1_202608/internal/service"
)

// ==================== StorefrontController 前台控制器 ====================

// StorefrontController 前台商品页（跳转调度入口）
type StorefrontController struct {
	productRepo repository.ProductRepository
	redirect    *service.RedirectService
}

// NewStorefrontController 创建前台控制器
func NewStorefrontController(productRepo repository.ProductRepository, redirect *service.RedirectService) *StorefrontController {
	return &StorefrontController{
		productRepo: productRepo,
		redirect:    redirect,
	}
}

// ==================== 接口 ====================

// GetProduct 前台商品页
// 调度顺序固定：开关 -> 目录可用性 -> 跳转记录。命中即 302，否则正常渲染。
// @Summary 前台商品页，可能被 302 跳转
// @Tags Storefront
// @Param id path string true "商品ID或 slug"
// @Success 200 {object} map[string]interface{}
// @Success 302
// @Router /products/{id} [get]
func (ctrl *StorefrontController) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()

	product, err := ctrl.findProduct(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	// 不是商品页：正常 404，与跳转无关
	if product == nil || product.State != model.ProductStatePublished {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
		return
	}

	decision, target, err := ctrl.redirect.Resolve(ctx, product)
	if err != nil {
		// 调度失败降级成正常渲染，前台永远不该看到跳转层的错误
		decision = service.DecisionNoRedirect
	}

	if decision == service.DecisionRedirect {
		c.Redirect(http.StatusFound, target)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"id":            product.ID,
			"title":         product.Title,
			"slug":          product.Slug,
			"description":   product.Description,
			"price_amount":  product.PriceAmount,
			"price_divisor": product.PriceDivisor,
			"currency_code": product.CurrencyCode,
			"tags":          product.Tags,
		},
	})
}

// findProduct 路径参数先按数字 ID 解析，失败再按 slug 查
func (ctrl *StorefrontController) findProduct(c *gin.Context) (*model.Product, error) {
	ctx := c.Request.Context()
	param := c.Param("id")

	if id, err := strconv.ParseInt(param, 10, 64); err == nil && id > 0 {
		return ctrl.productRepo.GetByID(ctx, id)
	}
	return ctrl.productRepo.GetBySlug(ctx, param)
}
