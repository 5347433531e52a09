package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/inreleppik/shortlink/internal/handlers"
	"github.com/inreleppik/shortlink/internal/middleware"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(middleware.GzipMiddleware)            // Gzip-сжатие

	r.Route("/links", func(r chi.Router) {
		r.Post("/shorten", handler.Shorten)
		r.Get("/search", handler.Search)
		r.Get("/expired", handler.Expired)
		r.Get("/{code}", handler.Redirect)
		r.Get("/{code}/stats", handler.Stats)
		r.Put("/{code}", handler.Update)
		r.Delete("/{code}", handler.Delete)
	})
	r.Get("/ping", handler.Ping)

	return r
}
