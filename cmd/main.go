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

	"shopcore_api/internal/config"
	"shopcore_api/internal/controller"
	"shopcore_api/internal/model"
	"shopcore_api/internal/repository"
	"shopcore_api/internal/router"
	"shopcore_api/internal/service"
	"shopcore_api/internal/task"
	"shopcore_api/pkg/database"
)

func main() {
	// 1. 加载配置
	cfg := config.Load()

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(db, cfg)

	// 4. 启动后台任务
	deps.TaskManager.Start()
	defer deps.TaskManager.Stop()

	// 5. 初始化路由并启动服务
	r := router.SetupRouter(deps.Controllers)
	startServer(r, cfg)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	TaskManager *task.TaskManager
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Partner  repository.PartnerRepository
	Category repository.CategoryRepository
	Product  repository.ProductRepository
	Order    repository.OrderRepository
}

// Services 服务集合
type Services struct {
	PartnerClient  *service.PartnerClient
	Payment        *service.PaymentClient
	Carrier        *service.CarrierClient
	Sync           *service.SyncService
	OrderReconcile *service.OrderReconcileService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.Database.DSN,
		// Partner
		&model.Partner{},
		// Catalog
		&model.Category{}, &model.Product{}, &model.ProductImage{}, &model.ProductSize{},
		// Order
		&model.Order{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, cfg *config.Config) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Partner:  repository.NewPartnerRepository(db),
		Category: repository.NewCategoryRepository(db),
		Product:  repository.NewProductRepository(db),
		Order:    repository.NewOrderRepository(db),
	}

	// -------- 外部客户端 --------
	partnerClient := service.NewPartnerClient(&cfg.Sync)
	paymentClient := service.NewPaymentClient(&cfg.Payment)
	carrierClient := service.NewCarrierClient(&cfg.Carrier)

	// -------- 业务服务 --------
	services := &Services{
		PartnerClient: partnerClient,
		Payment:       paymentClient,
		Carrier:       carrierClient,
	}
	services.Sync = service.NewSyncService(
		repos.Partner, repos.Category, repos.Product, partnerClient, &cfg.Sync,
	)
	services.OrderReconcile = service.NewOrderReconcileService(
		repos.Order, repos.Partner, partnerClient, paymentClient, carrierClient,
	)

	// -------- 后台任务 --------
	reconcileTask := task.NewReconcileTask(
		repos.Partner, repos.Product, services.Sync, task.NewTimerScheduler(), &cfg.Sync,
	)
	orderTask := task.NewOrderReconcileTask(services.OrderReconcile)
	taskManager := task.NewTaskManager(reconcileTask, orderTask)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Partner: controller.NewPartnerController(repos.Partner),
		Product: controller.NewProductController(repos.Product),
		Sync:    controller.NewSyncController(services.Sync, taskManager),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		TaskManager: taskManager,
		Controllers: controllers,
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, cfg *config.Config) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
