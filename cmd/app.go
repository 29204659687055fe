package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"searchier/internal/config"
	"searchier/internal/controller"
	"searchier/internal/middleware"
	"searchier/internal/model"
	"searchier/internal/repository"
	"searchier/internal/router"
	"searchier/internal/service"
	"searchier/internal/task"
	"searchier/pkg/database"
	"searchier/pkg/lightfunnels"
	"searchier/pkg/logger"
)

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Config      *config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	Migrator    *database.Migrator
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	Limiter     *middleware.KeyedLimiter
}

// Repositories 仓库集合
type Repositories struct {
	User        repository.UserRepository
	StoreConfig repository.StoreConfigRepository
	SearchEvent repository.SearchEventRepository
}

// Services 服务集合
type Services struct {
	Token       *service.TokenService
	Auth        *service.AuthService
	Store       *service.StoreService
	StoreConfig *service.StoreConfigService
	Product     *service.ProductService
	Analytics   *service.AnalyticsService
}

// models AutoMigrate 的模型；search_events 在 Postgres 下由分区 DDL 创建
func models() []interface{} {
	return []interface{}{
		&model.User{}, &model.OAuthAccount{},
		&model.StoreConfig{},
		&model.SearchEvent{},
	}
}

// ==================== 初始化函数 ====================

// bootstrap 读取配置、初始化日志并连接数据库
func bootstrap() (*Dependencies, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, err
	}
	logger.SetGlobal(log)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(database.Options{DSN: cfg.Database.DSN, Environment: cfg.Environment})
	if err != nil {
		return nil, err
	}

	migrator, err := database.NewMigrator(db, database.MigrateOptions{
		Models:             models(),
		RetentionOverrides: map[string]int{model.SearchEvent{}.TableName(): cfg.Database.EventRetentionMonths},
	}, log)
	if err != nil {
		return nil, err
	}

	return &Dependencies{Config: cfg, Log: log, DB: db, Migrator: migrator}, nil
}

// wire 创建仓库、服务与控制器
func (d *Dependencies) wire() {
	cfg := d.Config

	d.Repos = &Repositories{
		User:        repository.NewUserRepository(d.DB),
		StoreConfig: repository.NewStoreConfigRepository(d.DB),
		SearchEvent: repository.NewSearchEventRepository(d.DB),
	}

	api := lightfunnels.NewClient(cfg.Lightfunnels.URL, d.Log.Named("lightfunnels"))

	svc := &Services{}
	svc.Token = service.NewTokenService(d.Repos.User)
	svc.Auth = service.NewAuthService(d.Repos.User, api, service.NewOAuthConfig(cfg), d.Log.Named("auth"))
	svc.Store = service.NewStoreService(svc.Token, api, d.Log.Named("store"))
	svc.StoreConfig = service.NewStoreConfigService(
		d.Repos.StoreConfig, svc.Token, svc.Store, api, cfg.ScriptURL(), d.Log.Named("store_config"),
	)
	svc.Product = service.NewProductService(svc.Token, api, d.Log.Named("product"))
	svc.Analytics = service.NewAnalyticsService(d.Repos.SearchEvent, d.Log.Named("analytics"))
	d.Services = svc

	d.Controllers = &router.Controllers{
		Auth:        controller.NewAuthController(svc.Auth, d.Log),
		Product:     controller.NewProductController(svc.StoreConfig, svc.Product, d.Log),
		Event:       controller.NewEventController(svc.StoreConfig, svc.Analytics, d.Log),
		StoreConfig: controller.NewStoreConfigController(svc.StoreConfig, d.Log),
		Store:       controller.NewStoreController(svc.Store, d.Log),
		Analytics:   controller.NewAnalyticsController(svc.Analytics, d.Log),
	}

	d.Limiter = middleware.NewKeyedLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	jwtCfg := middleware.DefaultJWTConfig()
	jwtCfg.SecretKey = cfg.AppSecret
	jwtCfg.Secure = cfg.IsProduction()
	middleware.SetJWTConfig(jwtCfg)
}

// ==================== 命令 ====================

func runMigrate(c *cli.Context) error {
	deps, err := bootstrap()
	if err != nil {
		return err
	}
	defer deps.Log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(c.Context, 5*time.Minute)
	defer cancel()
	return deps.Migrator.Migrate(ctx)
}

func runServe(c *cli.Context) error {
	deps, err := bootstrap()
	if err != nil {
		return err
	}
	defer deps.Log.Sync() //nolint:errcheck
	log := deps.Log

	migrateCtx, cancel := context.WithTimeout(c.Context, 5*time.Minute)
	err = deps.Migrator.Migrate(migrateCtx)
	cancel()
	if err != nil {
		return err
	}

	deps.wire()

	// -------- 定时任务 --------
	tasks := task.NewTaskManager(&task.TaskManagerDeps{
		Configs:    deps.Repos.StoreConfig,
		Reconciler: deps.Services.StoreConfig,
		Accounts:   deps.Services.Auth,
	}, &task.TaskManagerConfig{
		AuditEnabled:     true,
		AuditCron:        deps.Config.Tasks.ScriptAuditCron,
		AuditConcurrency: 5,
		RefreshEnabled:   true,
		RefreshCron:      deps.Config.Tasks.TokenRefreshCron,
	}, log)
	if err := tasks.Start(); err != nil {
		return err
	}
	defer tasks.Stop()

	if deps.Migrator.Partitioned() {
		partitions := database.NewPartitionTask(deps.Migrator.Manager())
		if err := partitions.Start(); err != nil {
			return err
		}
		defer partitions.Stop()
	}

	// -------- HTTP --------
	r := router.SetupRouter(deps.Controllers, deps.Limiter, log)
	return startServer(c.Context, r, deps.Config.Port, log)
}

// ==================== 服务启动 ====================

// startServer 收到 SIGINT/SIGTERM 后优雅关闭，最多等待 30 秒
func startServer(parent context.Context, r *gin.Engine, port string, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("服务已退出")
	return nil
}
