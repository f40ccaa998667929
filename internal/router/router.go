package router

import (
	"github.com/gin-gonic/gin"

	"petshop_redirect_v1_202608/internal/controller"
	"petshop_redirect_v1_202608/internal/middleware"
	"petshop_redirect_v1_202608/internal/model"
)

// Controllers 控制器集合
type Controllers struct {
	User         *controller.UserController
	ProductAdmin *controller.ProductAdminController
	Settings     *controller.SettingsController
	Storefront   *controller.StorefrontController
}

// SetupRouter 注册所有路由
func SetupRouter(ctrls *Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 1. 前台路由（无鉴权）
	r.GET("/products/:id", ctrls.Storefront.GetProduct)

	// 2. 列表页脚本等静态资源（原来是 admin_footer 内联脚本，现在是独立静态文件）
	r.Static("/static", "./web/static")

	// 3. API 路由组
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			// POST /api/auth/login
			auth.POST("/login", ctrls.User.Login)
			// POST /api/auth/refresh
			auth.POST("/refresh", ctrls.User.RefreshToken)
		}

		// admin 后台组，统一 JWT 鉴权，viewer 角色进不来写接口
		admin := api.Group("/admin", middleware.JWTAuth())
		{
			// 商品后台
			products := admin.Group("/products")
			{
				// GET /api/admin/products
				products.GET("", ctrls.ProductAdmin.GetProducts)
				// GET /api/admin/products/:id/metabox
				products.GET("/:id/metabox", ctrls.ProductAdmin.GetMetabox)
				// POST /api/admin/products/:id/redirect
				products.POST("/:id/redirect", ctrls.ProductAdmin.SaveMetaboxRedirect)
			}

			// 列表页内联异步更新 (admin-ajax 等价物)
			admin.POST("/redirect/update", ctrls.ProductAdmin.UpdateRedirect)

			// 插件设置，只有管理角色能进
			settings := admin.Group("/settings",
				middleware.RequireRole(string(model.RoleAdmin), string(model.RoleShopManager)))
			{
				// GET /api/admin/settings
				settings.GET("", ctrls.Settings.GetSettings)
				// GET /api/admin/settings/nonce
				settings.GET("/nonce", ctrls.Settings.GetSettingsNonce)
				// POST /api/admin/settings
				settings.POST("", ctrls.Settings.SaveSettings)
			}
		}
	}

	return r
}
