package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"petshop_redirect_v1_202608/internal/controller"
	"petshop_redirect_v1_202608/internal/middleware"
	"petshop_redirect_v1_202608/internal/model"
	"petshop_redirect_v1_202608/internal/repository"
	"petshop_redirect_v1_202608/internal/router"
	"petshop_redirect_v1_202608/internal/service"
	"petshop_redirect_v1_202608/internal/task"
	"petshop_redirect_v1_202608/pkg/database"
	"petshop_redirect_v1_202608/pkg/utils"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := router.SetupRouter(deps.Controllers)

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	CatalogTask *task.CatalogTask
}

// Repositories 仓库集合
type Repositories struct {
	User         repository.UserRepository
	Product      repository.ProductRepository
	Settings     repository.SettingsRepository
	CatalogCache repository.CatalogCacheRepository
}

// Services 服务集合
type Services struct {
	User     *service.UserService
	Settings *service.SettingsService
	Catalog  *service.CatalogService
	Redirect *service.RedirectService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=petshop password=petshop dbname=petshop_redirect port=5432 sslmode=disable")

	return database.InitDB(dsn,
		// 用户
		&model.SysUser{},
		// 商品（含跳转字段）
		&model.Product{},
		// 插件设置 + 目录缓存
		&model.PluginSetting{}, &model.CatalogCacheEntry{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- JWT 配置 --------
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg := middleware.DefaultJWTConfig()
		cfg.SecretKey = secret
		middleware.SetJWTConfig(cfg)
	}

	// -------- Repo 层 --------
	repos := &Repositories{
		User:         repository.NewUserRepository(db),
		Product:      repository.NewProductRepository(db),
		Settings:     repository.NewSettingsRepository(db),
		CatalogCache: repository.NewCatalogCacheRepository(db),
	}

	// -------- 服务层 --------
	settingsSvc := service.NewSettingsService(repos.Settings)
	catalogSvc := service.NewCatalogService(repos.CatalogCache, settingsSvc, utils.NewCatalogClient())

	services := &Services{
		User:     service.NewUserService(repos.User),
		Settings: settingsSvc,
		Catalog:  catalogSvc,
		Redirect: service.NewRedirectService(settingsSvc, catalogSvc),
	}

	// -------- 初始管理员 --------
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := services.User.EnsureBootstrapAdmin(ctx,
		getEnv("BOOTSTRAP_ADMIN_USER", "admin"),
		getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	); err != nil {
		log.Printf("警告: 初始管理员创建失败: %v", err)
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		User:         controller.NewUserController(services.User),
		ProductAdmin: controller.NewProductAdminController(repos.Product, services.User, settingsSvc, catalogSvc),
		Settings:     controller.NewSettingsController(settingsSvc, catalogSvc, services.User),
		Storefront:   controller.NewStorefrontController(repos.Product, services.Redirect),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
		CatalogTask: task.NewCatalogTask(catalogSvc, settingsSvc, repos.CatalogCache),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	deps.CatalogTask.Start()
	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
