// media.go — сервис чтения и удаления медиазаписей.
package service

import (
	"context"
	"log/slog"

	"github.com/bigkaa/fotobox/internal/api/middleware"
	"github.com/bigkaa/fotobox/internal/domain/model"
	"github.com/bigkaa/fotobox/internal/repository"
	"github.com/bigkaa/fotobox/internal/storage/filestore"
)

// MediaService — список, поиск, подсчёт и удаление медиа.
type MediaService struct {
	repo   repository.MediaRepository
	store  *filestore.FileStore
	logger *slog.Logger
}

// NewMediaService создаёт сервис медиазаписей.
func NewMediaService(
	repo repository.MediaRepository,
	store *filestore.FileStore,
	logger *slog.Logger,
) *MediaService {
	return &MediaService{
		repo:   repo,
		store:  store,
		logger: logger.With(slog.String("component", "media_service")),
	}
}

// List возвращает все записи, новые первыми.
func (s *MediaService) List(ctx context.Context) ([]*model.Media, error) {
	return s.repo.ListAll(ctx)
}

// Get возвращает запись по имени хранения (repository.ErrNotFound при отсутствии).
func (s *MediaService) Get(ctx context.Context, filename string) (*model.Media, error) {
	return s.repo.Get(ctx, filename)
}

// Count возвращает число записей.
func (s *MediaService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Delete удаляет запись и оба файла (оригинал и миниатюру).
// Сначала удаляется строка базы, затем best-effort файлы: неудача
// удаления файла не восстанавливает строку, сироту подберёт сверка.
// Удаление отсутствующего filename — no-op.
func (s *MediaService) Delete(ctx context.Context, filename string) error {
	if err := s.repo.Delete(ctx, filename); err != nil {
		middleware.OperationsTotal.WithLabelValues("delete", "failure").Inc()
		return err
	}

	if err := s.store.RemoveMedia(filename); err != nil {
		s.logger.Warn("Не удалось удалить файлы записи",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}

	middleware.OperationsTotal.WithLabelValues("delete", "success").Inc()
	if n, err := s.repo.Count(ctx); err == nil {
		middleware.PhotosTotal.Set(float64(n))
	}

	s.logger.Info("Запись удалена", slog.String("filename", filename))
	return nil
}
