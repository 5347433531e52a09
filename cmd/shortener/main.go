package main

import (
	"context"
	"net/http"

	"github.com/inreleppik/shortlink/internal/auth"
	"github.com/inreleppik/shortlink/internal/cleanup"
	"github.com/inreleppik/shortlink/internal/config"
	"github.com/inreleppik/shortlink/internal/database"
	"github.com/inreleppik/shortlink/internal/handlers"
	"github.com/inreleppik/shortlink/internal/repositories"
	"github.com/inreleppik/shortlink/internal/router"
	"github.com/inreleppik/shortlink/internal/service"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg := config.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к БД: ", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.PgMigrationsPath, cfg.DatabaseDSN, logger); err != nil {
		logger.Fatal("Не удалось применить миграции: ", zap.Error(err))
	}

	repo := repositories.NewLinkRepository(db)
	svc := service.NewLinkService(repo, logger)
	authService := auth.New(cfg.AuthSecret)

	// Очистка устаревших ссылок: один проход на старте (не фатально),
	// затем по таймеру, если задан интервал
	sweeper := cleanup.NewSweeper(repo, logger, cfg.CleanupDays)
	sweeper.RunAtStartup(ctx)
	if cfg.CleanupInterval > 0 {
		go sweeper.Start(ctx, cfg.CleanupInterval)
	}

	handler := handlers.NewHandler(svc, authService, logger, cfg.BaseURL)
	r := router.NewRouter(handler, logger)

	logger.Info("Сервер запущен на ", zap.String("address", cfg.ServerAddress))
	if cfg.EnableHTTPS {
		err = http.ListenAndServeTLS(cfg.ServerAddress, cfg.TLSCertPath, cfg.TLSKeyPath, r)
	} else {
		err = http.ListenAndServe(cfg.ServerAddress, r)
	}
	if err != nil {
		logger.Fatal("Ошибка при запуске сервера: ", zap.Error(err))
	}
}
