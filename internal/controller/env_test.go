package controller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"petshop_redirect_v1_202608/internal/controller"
	"petshop_redirect_v1_202608/internal/middleware"
	"petshop_redirect_v1_202608/internal/model"
	"petshop_redirect_v1_202608/internal/repository"
	"petshop_redirect_v1_202608/internal/router"
	"petshop_redirect_v1_202608/internal/service"
	"petshop_redirect_v1_202608/pkg/utils"
)

// ==================== 接口层测试环境 ====================

// 远程目录的标准应答：一个分类、一个子分类、两个可选商品
const catalogFixture = `[
	{"name": "Cats", "children": [
		{"name": "Toys", "products": [
			{"url": "https://shop.example/p1", "name": "Feather Wand"},
			{"url": "https://shop.example/p2", "name": "Laser Pointer"}
		]}
	]}
]`

// ctlTestEnv 整条链路的测试环境：sqlite + 假目录源 + 完整路由
type ctlTestEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	origin   *httptest.Server
	failing  *atomic.Bool
	products repository.ProductRepository
	cache    repository.CatalogCacheRepository
	settings *service.SettingsService
	catalog  *service.CatalogService

	adminToken  string
	viewerToken string
}

func setupCtlTest(t *testing.T) *ctlTestEnv {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.SysUser{},
		&model.Product{},
		&model.PluginSetting{},
		&model.CatalogCacheEntry{},
	); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	env := &ctlTestEnv{db: db, failing: &atomic.Bool{}}

	env.origin = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env.failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogFixture))
	}))
	t.Cleanup(env.origin.Close)

	ctx := context.Background()

	settingsRepo := repository.NewSettingsRepository(db)
	if err := settingsRepo.SetAll(ctx, map[string]string{
		model.SettingKeyAPIURL:            env.origin.URL,
		model.SettingKeyCacheTTLHours:     "2",
		model.SettingKeyRedirectOnSingle:  "1",
		model.SettingKeyRedirectInListing: "1",
	}); err != nil {
		t.Fatalf("写入初始设置失败: %v", err)
	}

	env.settings = service.NewSettingsService(settingsRepo)
	env.cache = repository.NewCatalogCacheRepository(db)
	env.catalog = service.NewCatalogService(env.cache, env.settings, utils.NewCatalogClient())
	env.products = repository.NewProductRepository(db)

	userRepo := repository.NewUserRepository(db)
	userSvc := service.NewUserService(userRepo)
	redirectSvc := service.NewRedirectService(env.settings, env.catalog)

	admin := env.seedUser(t, userRepo, "admin", model.RoleAdmin)
	viewer := env.seedUser(t, userRepo, "viewer", model.RoleViewer)
	if env.adminToken, err = middleware.GenerateAccessToken(admin.ID, admin.Username, string(admin.Role)); err != nil {
		t.Fatalf("生成 admin token 失败: %v", err)
	}
	if env.viewerToken, err = middleware.GenerateAccessToken(viewer.ID, viewer.Username, string(viewer.Role)); err != nil {
		t.Fatalf("生成 viewer token 失败: %v", err)
	}

	env.router = router.SetupRouter(&router.Controllers{
		User:         controller.NewUserController(userSvc),
		ProductAdmin: controller.NewProductAdminController(env.products, userSvc, env.settings, env.catalog),
		Settings:     controller.NewSettingsController(env.settings, env.catalog, userSvc),
		Storefront:   controller.NewStorefrontController(env.products, redirectSvc),
	})
	return env
}

func (env *ctlTestEnv) seedUser(t *testing.T, repo repository.UserRepository, username string, role model.UserRole) *model.SysUser {
	t.Helper()
	user := &model.SysUser{
		Username: username,
		Password: "$2a$10$unused-hash-login-not-under-test",
		Role:     role,
		Status:   model.UserStatusActive,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("创建用户 %s 失败: %v", username, err)
	}
	return user
}

func (env *ctlTestEnv) seedProduct(t *testing.T, title, slug, state, redirectURL string) *model.Product {
	t.Helper()
	p := &model.Product{
		Title:       title,
		Slug:        slug,
		State:       state,
		RedirectURL: redirectURL,
	}
	if err := env.products.Create(context.Background(), p); err != nil {
		t.Fatalf("创建商品 %s 失败: %v", slug, err)
	}
	return p
}

// do 发请求，token 为空表示匿名
func (env *ctlTestEnv) do(t *testing.T, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// saveSettings 直接通过服务层改设置，测试里拨开关用
func (env *ctlTestEnv) saveSettings(t *testing.T, cfg service.PluginSettings) {
	t.Helper()
	if _, err := env.settings.Save(context.Background(), cfg); err != nil {
		t.Fatalf("保存设置失败: %v", err)
	}
}
