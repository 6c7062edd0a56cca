// Точка входа Fotobox — сервиса обмена фотографиями на мероприятиях.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bigkaa/fotobox/internal/api/handlers"
	"github.com/bigkaa/fotobox/internal/api/middleware"
	"github.com/bigkaa/fotobox/internal/config"
	"github.com/bigkaa/fotobox/internal/domain/auth"
	"github.com/bigkaa/fotobox/internal/repository"
	"github.com/bigkaa/fotobox/internal/server"
	"github.com/bigkaa/fotobox/internal/service"
	"github.com/bigkaa/fotobox/internal/storage/filestore"
	"github.com/bigkaa/fotobox/internal/ui"
)

func main() {
	// Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Fotobox запускается",
		slog.String("version", config.Version),
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("upload_dir", cfg.UploadDir),
		slog.String("db_path", cfg.DBPath),
	)

	// Сгенерированный токен печатается один раз при старте — иначе
	// администратору негде его узнать.
	if cfg.AdminTokenGenerated {
		logger.Info("Админ-токен сгенерирован", slog.String("admin_token", cfg.AdminToken))
	}

	// --- Инициализация компонентов ---

	// 1. Каталоги хранилища
	if err := cfg.InitDirectories(); err != nil {
		logger.Error("Ошибка создания каталогов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. База данных и миграции
	if err := repository.Migrate(cfg.DBPath, logger); err != nil {
		logger.Error("Ошибка миграции базы данных", slog.String("error", err.Error()))
		os.Exit(1)
	}
	db, err := repository.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Error("Ошибка открытия базы данных", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	repo := repository.NewMediaRepository(db)

	// 3. Файловое хранилище
	store, err := filestore.New(cfg.UploadDir, cfg.ThumbDir)
	if err != nil {
		logger.Error("Ошибка инициализации FileStore", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Сервисы
	ctx := context.Background()

	uploadSvc := service.NewUploadService(repo, store, cfg.UploadCode, cfg.MaxUploadBytes(), cfg.ThumbSize, logger)
	mediaSvc := service.NewMediaService(repo, store, logger)

	if n, err := repo.Count(ctx); err == nil {
		middleware.PhotosTotal.Set(float64(n))
	}

	// 5. Фоновая сверка хранилища
	reconcileSvc := service.NewReconcileService(repo, store, cfg.ReconcileInterval, cfg.OrphanAge, logger)
	reconcileSvc.Start(ctx)
	defer reconcileSvc.Stop()

	// 6. UI и обработчики
	renderer, err := ui.NewRenderer()
	if err != nil {
		logger.Error("Ошибка инициализации шаблонов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	flash := ui.NewFlash(cfg.SessionSecret)
	authz := auth.NewStaticToken(cfg.AdminToken)

	h := server.Handlers{
		Gallery: handlers.NewGalleryHandler(mediaSvc, authz, renderer, flash, cfg, logger),
		Upload:  handlers.NewUploadHandler(uploadSvc, renderer, flash, cfg, logger),
		Files:   handlers.NewFilesHandler(mediaSvc, store, logger),
		API:     handlers.NewAPIHandler(mediaSvc, cfg, logger),
		Admin:   handlers.NewAdminHandler(mediaSvc, authz, flash, logger),
		QR:      handlers.NewQRHandler(cfg, logger),
	}

	// 7. HTTP-сервер
	srv := server.New(cfg, logger, h)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
