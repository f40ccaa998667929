package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petshop_redirect_v1_202608/internal/api/dto"
	"petshop_redirect_v1_202608/internal/middleware"
	"petshop_redirect_v1_202608/internal/service"
)

// ==================== SettingsController 设置控制器 ====================

// SettingsController 插件设置页
type SettingsController struct {
	settings    *service.SettingsService
	catalog     *service.CatalogService
	userService *service.UserService
}

// NewSettingsController 创建设置控制器
func NewSettingsController(settings *service.SettingsService, catalog *service.CatalogService, userService *service.UserService) *SettingsController {
	return &SettingsController{
		settings:    settings,
		catalog:     catalog,
		userService: userService,
	}
}

// ==================== 接口 ====================

// GetSettings 读取插件设置
// @Summary 读取插件设置
// @Tags Settings
// @Success 200 {object} dto.SettingsResp
// @Router /api/admin/settings [get]
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	cfg, err := ctrl.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "读取设置失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.SettingsResp{
			APIURL:            cfg.APIURL,
			CacheTTLHours:     cfg.CacheTTLHours,
			RedirectOnSingle:  cfg.RedirectOnSingle,
			RedirectInListing: cfg.RedirectInListing,
		},
	})
}

// GetSettingsNonce 签发设置表单的 nonce
// wp_nonce_field 的 API 等价物：表单渲染前先取一个
// @Summary 签发设置表单 nonce
// @Tags Settings
// @Router /api/admin/settings/nonce [get]
func (ctrl *SettingsController) GetSettingsNonce(c *gin.Context) {
	nonce, err := middleware.GenerateNonce(middleware.NoncePurposeSaveSettings, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "生成 nonce 失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    gin.H{"nonce": nonce},
	})
}

// SaveSettings 保存插件设置
// 提交结果三选一：nonce 失败 / 已保存 / 已保存且缓存已清空
// @Summary 保存插件设置，可顺带清空目录缓存
// @Tags Settings
// @Param request body dto.SaveSettingsReq true "设置内容"
// @Router /api/admin/settings [post]
func (ctrl *SettingsController) SaveSettings(c *gin.Context) {
	var req dto.SaveSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	if err := middleware.VerifyNonce(req.Nonce, middleware.NoncePurposeSaveSettings, 0); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "Nonce 校验失败"})
		return
	}

	ctx := c.Request.Context()
	canManage, err := ctrl.userService.CanManageSettings(ctx, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "权限检查失败: " + err.Error()})
		return
	}
	if !canManage {
		c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "没有设置管理权限"})
		return
	}

	saved, err := ctrl.settings.Save(ctx, service.PluginSettings{
		APIURL:            req.APIURL,
		CacheTTLHours:     req.CacheTTLHours,
		RedirectOnSingle:  req.RedirectOnSingle,
		RedirectInListing: req.RedirectInListing,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "保存失败: " + err.Error()})
		return
	}

	message := "设置已保存"
	if req.FlushCache {
		if err := ctrl.catalog.Flush(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "缓存清空失败: " + err.Error()})
			return
		}
		message = "设置已保存，缓存已清空"
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": message,
		"data": dto.SettingsResp{
			APIURL:            saved.APIURL,
			CacheTTLHours:     saved.CacheTTLHours,
			RedirectOnSingle:  saved.RedirectOnSingle,
			RedirectInListing: saved.RedirectInListing,
		},
	})
}
