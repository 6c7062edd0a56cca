// Пакет server — HTTP-сервер Fotobox с graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/fotobox/internal/api/handlers"
	"github.com/bigkaa/fotobox/internal/api/middleware"
	"github.com/bigkaa/fotobox/internal/config"
)

// Handlers — набор обработчиков, монтируемых на роутер.
type Handlers struct {
	Gallery *handlers.GalleryHandler
	Upload  *handlers.UploadHandler
	Files   *handlers.FilesHandler
	API     *handlers.APIHandler
	Admin   *handlers.AdminHandler
	QR      *handlers.QRHandler
}

// Server — HTTP-сервер Fotobox.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New создаёт HTTP-сервер с настроенными маршрутами и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *Server {
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
		Handler:      NewRouter(logger, h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// NewRouter собирает chi-роутер со всеми маршрутами и middleware.
func NewRouter(logger *slog.Logger, h Handlers) chi.Router {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware())

	// Страницы
	router.Get("/", h.Gallery.Handle)
	router.Get("/upload", h.Upload.ShowForm)
	router.Post("/upload", h.Upload.HandleUpload)

	// Файлы
	router.Get("/assets/{name}", h.Files.ServeAsset)
	router.Get("/thumbs/{name}", h.Files.ServeThumb)

	// Администрирование
	router.Post("/admin/delete", h.Admin.Delete)

	// JSON API
	router.Get("/api/list", h.API.List)
	router.Get("/api/stats", h.API.Stats)

	// Служебные
	router.Get("/qr.png", h.QR.Handle)
	router.Get("/favicon.ico", h.Gallery.Favicon)
	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown с таймаутом 30 секунд.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен", slog.String("addr", s.httpServer.Addr))

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown с таймаутом 30 секунд
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
