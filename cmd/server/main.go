package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-market-backend/internal/config"
	"github.com/ignatzorin/freelance-market-backend/internal/db"
	"github.com/ignatzorin/freelance-market-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/freelance-market-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/freelance-market-backend/internal/http/router"
	"github.com/ignatzorin/freelance-market-backend/internal/logger"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
	"github.com/ignatzorin/freelance-market-backend/internal/service"
	"github.com/ignatzorin/freelance-market-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn)
	proposalRepo := repository.NewProposalRepository(dbConn)
	contractRepo := repository.NewContractRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	projectService := service.NewProjectService(projectRepo, userRepo)
	proposalService := service.NewProposalService(proposalRepo, projectRepo, userRepo)
	contractService := service.NewContractService(contractRepo)
	milestoneService := service.NewMilestoneService(contractRepo)
	reviewService := service.NewReviewService(reviewRepo, contractRepo, userRepo)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	goroutine.SafeGo(hub.Run)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	projectHandler := httpHandlers.NewProjectHandler(projectService)
	proposalHandler := httpHandlers.NewProposalHandler(proposalService, hub)
	contractHandler := httpHandlers.NewContractHandler(contractService)
	milestoneHandler := httpHandlers.NewMilestoneHandler(milestoneService, hub)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, projectHandler, proposalHandler,
		contractHandler, milestoneHandler, reviewHandler, healthHandler, wsHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	})

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(dbConn *sqlx.DB) {
	if err := dbConn.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
