package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"painel-solicitacoes/internal/controllers"
	"painel-solicitacoes/internal/listeners"
	"painel-solicitacoes/internal/repositories"
	"painel-solicitacoes/internal/services"
	"painel-solicitacoes/pkg/config"
	"painel-solicitacoes/pkg/eventbus"
)

// InitRouter собирает зависимости и вешает маршруты на e.
// redisClient может быть nil: тогда статистика и зоны не кешируются.
// Метрики слушателя регистрируются в registry, он же отдаётся на /metrics.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	bus *eventbus.Bus,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg *config.Config,
	registry *prometheus.Registry,
) {
	logger.Info("InitRouter: Начало создания маршрутов")

	// --- 1. РЕПОЗИТОРИИ ---
	txManager := repositories.NewTxManager(dbConn)
	requestRepo := repositories.NewRequestRepository(dbConn, logger)
	var cacheRepo repositories.CacheRepositoryInterface
	if redisClient != nil {
		cacheRepo = repositories.NewRedisCacheRepository(redisClient)
	}

	// --- 2. СЕРВИСЫ ---
	requestService := services.NewRequestService(txManager, requestRepo, cacheRepo, bus, validate, logger, cfg.Redis.CacheTTL)
	sheetService := services.NewSheetService(txManager, requestRepo, cacheRepo, bus, validate, logger)
	listeners.NewRequestListener(registry, logger).Register(bus)

	// --- 3. КОНТРОЛЛЕРЫ ---
	requestCtrl := controllers.NewRequestController(requestService, sheetService, logger)
	healthCtrl := controllers.NewHealthController(cfg.App.Version)

	// --- 4. РОУТЕРЫ ---
	api := e.Group(cfg.Server.BasePath)
	runRequestRouter(api, requestCtrl)
	runHealthRouter(api, healthCtrl)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	logger.Info("InitRouter: Маршруты созданы", zap.String("base_path", cfg.Server.BasePath))
}

func runRequestRouter(g *echo.Group, ctrl *controllers.RequestController) {
	// статические пути регистрируются до :id
	g.GET("/requests", ctrl.GetRequests)
	g.POST("/requests", ctrl.CreateRequest)
	g.GET("/requests/stats", ctrl.GetStats)
	g.GET("/requests/areas", ctrl.GetAreas)
	g.GET("/requests/export", ctrl.ExportRequests)
	g.POST("/requests/import", ctrl.ImportRequests)
	g.PUT("/requests/:id", ctrl.UpdateRequest)
}

func runHealthRouter(g *echo.Group, ctrl *controllers.HealthController) {
	g.GET("/health", ctrl.Health)
}
