package controller

import (
	"fmt"
	"html"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"petshop_redirect_v1_202608/internal/api/dto"
	"petshop_redirect_v1_202608/internal/middleware"
	"petshop_redirect_v1_202608/internal/model"
	"petshop_redirect_v1_202608/internal/repository"
	"petshop_redirect_v1_202608/internal/service"
)

// ==================== ProductAdminController 商品后台控制器 ====================

// ProductAdminController 商品后台：metabox、列表列、内联异步更新
type ProductAdminController struct {
	productRepo repository.ProductRepository
	userService *service.UserService
	settings    *service.SettingsService
	catalog     *service.CatalogService
}

// NewProductAdminController 创建商品后台控制器
func NewProductAdminController(
	productRepo repository.ProductRepository,
	userService *service.UserService,
	settings *service.SettingsService,
	catalog *service.CatalogService,
) *ProductAdminController {
	return &ProductAdminController{
		productRepo: productRepo,
		userService: userService,
		settings:    settings,
		catalog:     catalog,
	}
}

// ==================== 列表接口 ====================

// GetProducts 获取商品列表（含内联跳转下拉）
// @Summary 商品列表，开关开启时每行带渲染好的跳转下拉框
// @Tags ProductAdmin
// @Param state query string false "状态筛选"
// @Param keyword query string false "标题搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.ProductListResp
// @Router /api/admin/products [get]
func (ctrl *ProductAdminController) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	ctx := c.Request.Context()
	products, total, err := ctrl.productRepo.List(ctx, repository.ProductFilter{
		State:    c.Query("state"),
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	cfg, err := ctrl.settings.Get(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "读取设置失败: " + err.Error()})
		return
	}

	// 列表列开关开启才渲染下拉；目录树整页只拉一次
	var tree model.CatalogTree
	if cfg.RedirectInListing {
		tree, err = ctrl.catalog.GetCatalog(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "读取目录失败: " + err.Error()})
			return
		}
	}

	respList := make([]dto.ProductResp, 0, len(products))
	for _, p := range products {
		resp := dto.ProductResp{
			ID:           p.ID,
			Title:        p.Title,
			Slug:         p.Slug,
			State:        p.State,
			PriceAmount:  p.PriceAmount,
			PriceDivisor: p.PriceDivisor,
			CurrencyCode: p.CurrencyCode,
			Tags:         p.Tags,
			RedirectURL:  p.RedirectURL,
		}
		if cfg.RedirectInListing {
			nonce, err := middleware.GenerateNonce(middleware.NoncePurposeUpdateRedirect, p.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "生成 nonce 失败: " + err.Error()})
				return
			}
			elementID := fmt.Sprintf("%s_%d", service.DefaultDropdownID, p.ID)
			resp.RedirectDropdownHTML = service.BuildDropdown(tree, p.RedirectURL, elementID, p.ID, nonce)
		}
		respList = append(respList, resp)
	}

	c.JSON(http.StatusOK, dto.ProductListResp{
		Code:     0,
		Message:  "success",
		Data:     respList,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// ==================== Metabox ====================

// GetMetabox 商品编辑页的跳转 metabox 片段
// @Summary 渲染商品编辑页侧边栏的跳转选择框
// @Tags ProductAdmin
// @Param id path int true "商品ID"
// @Produce html
// @Success 200 {string} string "HTML 片段"
// @Router /api/admin/products/{id}/metabox [get]
func (ctrl *ProductAdminController) GetMetabox(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	ctx := c.Request.Context()
	cfg, err := ctrl.settings.Get(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "读取设置失败: " + err.Error()})
		return
	}
	// 单页跳转整体关闭时不注册 metabox
	if !cfg.RedirectOnSingle {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "跳转功能已关闭"})
		return
	}

	product, err := ctrl.productRepo.GetByID(ctx, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
		return
	}

	tree, err := ctrl.catalog.GetCatalog(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "读取目录失败: " + err.Error()})
		return
	}

	nonce, err := middleware.GenerateNonce(middleware.NoncePurposeMetaboxSave, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "生成 nonce 失败: " + err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(ctrl.renderMetabox(product, tree, nonce)))
}

// renderMetabox 拼 metabox 片段：编辑页提示条 + nonce 隐藏域 + 下拉框
func (ctrl *ProductAdminController) renderMetabox(product *model.Product, tree model.CatalogTree, nonce string) string {
	var notice string
	if product.HasRedirect() {
		escaped := html.EscapeString(product.RedirectURL)
		notice = `<div class="notice notice-success"><p>This product is redirecting to <a href="` +
			escaped + `" target="_blank">` + escaped + `</a>.</p></div>`
	} else {
		notice = `<div class="notice notice-error"><p>This product is not set to redirect.</p></div>`
	}

	return notice +
		`<p>Select a product redirect from Website 1:</p>` +
		`<input type="hidden" name="nonce" value="` + html.EscapeString(nonce) + `"/>` +
		service.BuildDropdown(tree, product.RedirectURL, service.DefaultDropdownID, 0, "")
}

// SaveMetaboxRedirect 保存 metabox 选择
// @Summary 保存商品编辑页选中的跳转地址
// @Tags ProductAdmin
// @Param id path int true "商品ID"
// @Param nonce formData string true "metabox nonce"
// @Param redirect_url formData string false "跳转地址，空串 = 清除"
// @Router /api/admin/products/{id}/redirect [post]
func (ctrl *ProductAdminController) SaveMetaboxRedirect(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	var req dto.MetaboxSaveReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	if err := middleware.VerifyNonce(req.Nonce, middleware.NoncePurposeMetaboxSave, productID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "Nonce 校验失败"})
		return
	}

	ctx := c.Request.Context()
	canEdit, err := ctrl.userService.CanEditProduct(ctx, middleware.GetUserID(c), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "权限检查失败: " + err.Error()})
		return
	}
	if !canEdit {
		c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "没有该商品的编辑权限"})
		return
	}

	if err := ctrl.productRepo.UpdateRedirectURL(ctx, productID, req.RedirectURL); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "跳转已保存"})
}

// ==================== 内联异步更新 ====================

// 列表页异步更新的固定 action 判别值
const UpdateRedirectAction = "pr_update_redirect"

// UpdateRedirect 列表页内联下拉的异步更新
// 响应沿用 wp_send_json_* 的 {success, data} 信封，每次调用恰好报一个结果。
// 校验顺序固定：缺字段 -> nonce -> 权限 -> 落库。
// @Summary 列表页内联更新商品跳转地址
// @Tags ProductAdmin
// @Param action formData string true "固定为 pr_update_redirect"
// @Param nonce formData string true "绑定商品的 nonce"
// @Param product_id formData int true "商品ID"
// @Param redirect_url formData string true "跳转地址，空串 = 清除"
// @Router /api/admin/redirect/update [post]
func (ctrl *ProductAdminController) UpdateRedirect(c *gin.Context) {
	action, hasAction := c.GetPostForm("action")
	nonce, hasNonce := c.GetPostForm("nonce")
	productIDStr, hasProductID := c.GetPostForm("product_id")
	redirectURL, hasRedirectURL := c.GetPostForm("redirect_url")

	// redirect_url 允许为空串（清除跳转），但字段本身必须在
	if !hasAction || !hasNonce || !hasProductID || !hasRedirectURL || action != UpdateRedirectAction {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "data": "缺少参数"})
		return
	}

	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "data": "无效的商品ID"})
		return
	}

	if err := middleware.VerifyNonce(nonce, middleware.NoncePurposeUpdateRedirect, productID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "data": "Nonce 校验失败"})
		return
	}

	ctx := c.Request.Context()
	canEdit, err := ctrl.userService.CanEditProduct(ctx, middleware.GetUserID(c), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "data": "权限检查失败"})
		return
	}
	if !canEdit {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "data": "没有该商品的编辑权限"})
		return
	}

	if err := ctrl.productRepo.UpdateRedirectURL(ctx, productID, redirectURL); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "data": "商品不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": "跳转地址已更新"})
}
