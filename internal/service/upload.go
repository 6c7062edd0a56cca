// Пакет service — бизнес-логика Fotobox.
// upload.go — оркестратор пакетной загрузки: валидация каждого файла,
// запись оригинала, миниатюра best-effort, вставка метаданных и
// агрегация итогов в одно сообщение пользователю.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bigkaa/fotobox/internal/api/middleware"
	"github.com/bigkaa/fotobox/internal/domain/auth"
	"github.com/bigkaa/fotobox/internal/domain/model"
	"github.com/bigkaa/fotobox/internal/repository"
	"github.com/bigkaa/fotobox/internal/storage/filestore"
	"github.com/bigkaa/fotobox/internal/storage/thumbnail"
)

// Ошибки, прерывающие обработку всего пакета.
var (
	// ErrWrongCode — кодовое слово загрузки не совпало; пакет отклонён целиком.
	ErrWrongCode = errors.New("неверное кодовое слово")
	// ErrNoFiles — в пакете не оказалось ни одного файла с именем.
	ErrNoFiles = errors.New("файлы не выбраны")
)

// BatchItem — один файл пакета загрузки.
type BatchItem struct {
	// Name — клиентское имя файла (недоверенное, только для отображения)
	Name string
	// Size — заявленный размер в байтах
	Size int64
	// Open открывает поток данных файла
	Open func() (io.ReadCloser, error)
}

// FailedItem — файл, который не удалось принять, и причина.
type FailedItem struct {
	Name   string
	Reason string
}

// BatchResult — агрегированный итог обработки пакета.
type BatchResult struct {
	Saved  int
	Failed []FailedItem
}

// Summary строит одно человекочитаемое сообщение по итогам пакета.
// Три формы: всё не удалось, всё успешно, смешанный результат.
// Детали перечисляются, пока их немного; дальше — только счётчик.
func (r *BatchResult) Summary() string {
	failed := len(r.Failed)

	switch {
	case r.Saved == 0 && failed > 0:
		if failed <= 3 {
			return "Загрузка не удалась: " + joinReasons(r.Failed)
		}
		return fmt.Sprintf("Загрузка не удалась: %d файл(ов) не загружено.", failed)

	case failed == 0:
		return fmt.Sprintf("🎉 Успешно! Фото загружено: %d.", r.Saved)

	default:
		msg := fmt.Sprintf("✅ Фото загружено: %d.", r.Saved)
		if failed <= 2 {
			return msg + " ❌ Ошибки: " + joinReasons(r.Failed)
		}
		return msg + fmt.Sprintf(" ❌ Файлов с ошибками: %d.", failed)
	}
}

func joinReasons(failed []FailedItem) string {
	parts := make([]string, 0, len(failed))
	for _, f := range failed {
		parts = append(parts, fmt.Sprintf("'%s': %s", f.Name, f.Reason))
	}
	return strings.Join(parts, "; ")
}

// UploadService — оркестратор загрузки.
type UploadService struct {
	repo       repository.MediaRepository
	store      *filestore.FileStore
	uploadCode string
	maxBytes   int64
	thumbSize  int
	logger     *slog.Logger
}

// NewUploadService создаёт оркестратор загрузки.
func NewUploadService(
	repo repository.MediaRepository,
	store *filestore.FileStore,
	uploadCode string,
	maxBytes int64,
	thumbSize int,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		repo:       repo,
		store:      store,
		uploadCode: uploadCode,
		maxBytes:   maxBytes,
		thumbSize:  thumbSize,
		logger:     logger.With(slog.String("component", "upload_service")),
	}
}

// ProcessBatch обрабатывает пакет загрузки независимо по файлам.
//
// Весь пакет отклоняется только в двух случаях: неверное кодовое слово
// (ErrWrongCode, ничего не обработано) и полное отсутствие файлов
// (ErrNoFiles). Любая ошибка отдельного файла фиксируется в итогах
// и не прерывает обработку остальных.
func (s *UploadService) ProcessBatch(ctx context.Context, items []BatchItem, uploaderIP, code string) (*BatchResult, error) {
	// Кодовое слово: если настроено — проверяется до любой обработки.
	if s.uploadCode != "" && !auth.SecretEqual(code, s.uploadCode) {
		s.logger.Warn("Пакет отклонён: неверное кодовое слово",
			slog.String("uploader_ip", uploaderIP),
		)
		return nil, ErrWrongCode
	}

	result := &BatchResult{}
	processed := 0

	for _, item := range items {
		// Части без имени пропускаются молча (пустые поля формы).
		if item.Name == "" {
			continue
		}
		processed++

		if reason := s.processItem(ctx, item, uploaderIP); reason != "" {
			result.Failed = append(result.Failed, FailedItem{Name: item.Name, Reason: reason})
			middleware.OperationsTotal.WithLabelValues("upload", "failure").Inc()
		} else {
			result.Saved++
			middleware.OperationsTotal.WithLabelValues("upload", "success").Inc()
		}
	}

	if processed == 0 {
		return nil, ErrNoFiles
	}

	s.updatePhotosGauge(ctx)

	s.logger.Info("Пакет загрузки обработан",
		slog.Int("saved", result.Saved),
		slog.Int("failed", len(result.Failed)),
		slog.String("uploader_ip", uploaderIP),
	)
	return result, nil
}

// processItem обрабатывает один файл пакета.
// Возвращает пустую строку при успехе, иначе причину отказа.
// Валидация выполняется до любой записи на диск.
func (s *UploadService) processItem(ctx context.Context, item BatchItem, uploaderIP string) string {
	if !filestore.IsAllowedExt(item.Name) {
		ext := filestore.ExtOf(item.Name)
		if ext == "" {
			ext = "неизвестно"
		}
		return fmt.Sprintf("тип файла .%s не допускается", ext)
	}

	if item.Size > s.maxBytes {
		return fmt.Sprintf("файл слишком большой (%.1f МБ)", float64(item.Size)/(1024*1024))
	}
	if item.Size == 0 {
		return "пустой файл"
	}

	filename, err := filestore.GenerateFilename(item.Name)
	if err != nil {
		return "не удалось сгенерировать имя файла"
	}

	src, err := item.Open()
	if err != nil {
		s.logger.Warn("Не удалось открыть загружаемый файл",
			slog.String("name", item.Name),
			slog.String("error", err.Error()),
		)
		return "ошибка чтения файла"
	}
	defer src.Close()

	// Оригинал пишется атомарно; запись в базу — только после этого.
	if _, err := s.store.SaveAsset(filename, src); err != nil {
		s.logger.Error("Ошибка записи оригинала",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return "ошибка сохранения файла"
	}

	s.makeThumbnail(filename)

	media := &model.Media{
		Filename:   filename,
		OrigName:   item.Name,
		UploaderIP: uploaderIP,
		FileSize:   item.Size,
		FileType:   filestore.ExtOf(item.Name),
	}
	if err := s.repo.Insert(ctx, media); err != nil {
		// Запись в базу не удалась: файлы удаляются сразу, чтобы не
		// оставлять сироту; окно между записью и вставкой прикрывает
		// фоновая сверка.
		if rmErr := s.store.RemoveMedia(filename); rmErr != nil {
			s.logger.Error("Не удалось удалить файлы после ошибки вставки",
				slog.String("filename", filename),
				slog.String("error", rmErr.Error()),
			)
		}
		s.logger.Error("Ошибка вставки метаданных",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return "ошибка базы данных"
	}

	s.logger.Debug("Файл принят",
		slog.String("filename", filename),
		slog.String("orig_name", item.Name),
		slog.Int64("size", item.Size),
	)
	return ""
}

// makeThumbnail создаёт миниатюру best-effort: сначала преобразование,
// при ошибке — побайтовая копия оригинала. Ошибка копии тоже не
// блокирует приём файла: отсутствие миниатюры допустимо.
func (s *UploadService) makeThumbnail(filename string) {
	srcPath := s.store.AssetPath(filename)
	dstPath := s.store.ThumbPath(filename)

	err := thumbnail.Generate(srcPath, dstPath, s.thumbSize)
	if err == nil {
		return
	}
	s.logger.Warn("Преобразование миниатюры не удалось, применяется копия оригинала",
		slog.String("filename", filename),
		slog.String("error", err.Error()),
	)
	middleware.ThumbnailFallbackTotal.Inc()

	if err := thumbnail.CopyOriginal(srcPath, dstPath); err != nil {
		s.logger.Error("Запасная копия миниатюры не удалась",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}
}

// updatePhotosGauge обновляет gauge общего числа фотографий.
func (s *UploadService) updatePhotosGauge(ctx context.Context) {
	if n, err := s.repo.Count(ctx); err == nil {
		middleware.PhotosTotal.Set(float64(n))
	}
}
