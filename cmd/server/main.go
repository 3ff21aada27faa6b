package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/caelus-market/caelus-backend/internal/config"
	"github.com/caelus-market/caelus-backend/internal/db"
	"github.com/caelus-market/caelus-backend/internal/domain/catalog"
	"github.com/caelus-market/caelus-backend/internal/domain/progression"
	httpHandlers "github.com/caelus-market/caelus-backend/internal/http/handlers"
	httpRouter "github.com/caelus-market/caelus-backend/internal/http/router"
	"github.com/caelus-market/caelus-backend/internal/infrastructure/persistence"
	"github.com/caelus-market/caelus-backend/internal/interface/http/handler"
	"github.com/caelus-market/caelus-backend/internal/logger"
	"github.com/caelus-market/caelus-backend/internal/metrics"
	"github.com/caelus-market/caelus-backend/internal/service"
	"github.com/caelus-market/caelus-backend/internal/tracing"
	"github.com/caelus-market/caelus-backend/internal/usecase/tag"
	"github.com/caelus-market/caelus-backend/internal/ws"
	"github.com/caelus-market/caelus-backend/migrations"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}
	lg := logger.Get()

	shutdownTracing, err := tracing.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		lg.Fatalf("main: ошибка инициализации трассировки: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			lg.WithError(err).Warn("main: ошибка остановки трассировки")
		}
	}()

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPoolConfig())
	if err != nil {
		lg.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, migrationsFS(cfg.MigrationsPath)); err != nil {
		lg.Fatalf("main: ошибка миграций: %v", err)
	}

	// Домен.
	specCatalog, err := catalog.Default()
	if err != nil {
		lg.Fatalf("main: ошибка загрузки каталога специализаций: %v", err)
	}
	policy, err := progression.PolicyByName(cfg.ThresholdPolicy)
	if err != nil {
		lg.Fatalf("main: %v", err)
	}
	engine := progression.NewEngine(policy)

	registry := metrics.NewRegistry()
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Репозитории и use cases.
	tagRepo := persistence.NewTagRepositoryAdapter(dbConn)
	retry := tag.RetryConfig{MaxAttempts: cfg.SaveMaxAttempts, InitialInterval: cfg.SaveRetryInitial}

	handlers := httpRouter.Handlers{
		Health: httpHandlers.NewHealthHandler(dbConn),
		WS:     httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Tags: handler.NewTagHandler(
			tag.NewCreateTagUseCase(tagRepo, specCatalog, engine),
			tag.NewGetTagUseCase(tagRepo),
			tag.NewListDesignerTagsUseCase(tagRepo),
			tag.NewRecordProjectUseCase(tagRepo, engine, registry.Tags, hub, retry),
		),
		Catalog: handler.NewCatalogHandler(specCatalog),
	}

	engineHTTP := httpRouter.SetupRouter(cfg, handlers, tokenManager, registry)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engineHTTP,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	lg.WithFields(logrus.Fields{
		"port":   cfg.HTTPPort,
		"policy": policy.Name(),
		"specs":  len(specCatalog.All()),
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// migrationsFS возвращает каталог миграций с диска, если он задан, иначе встроенные миграции.
func migrationsFS(path string) fs.FS {
	if path != "" {
		return os.DirFS(path)
	}
	return migrations.FS
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Get().WithError(err).Warn("main: ошибка закрытия базы")
	}
}
