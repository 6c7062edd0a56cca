// reconcile.go — фоновая сверка файлового хранилища с базой.
//
// Сверка находит и удаляет:
//   - оригиналы без записи в базе (сироты после сбоя между записью
//     файла и вставкой метаданных);
//   - миниатюры, которым не соответствует ни одна запись;
//   - брошенные временные файлы (*.tmp).
//
// Удаляются только файлы старше порога orphanAge, чтобы не задеть
// загрузки, выполняющиеся в данный момент.
// Запускается горутиной с периодическим тикером (FB_RECONCILE_INTERVAL).
package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/fotobox/internal/repository"
	"github.com/bigkaa/fotobox/internal/storage/filestore"
)

// Prometheus метрики сверки
var (
	// reconcileRunsTotal — количество запусков сверки.
	reconcileRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fb_reconcile_runs_total",
		Help: "Общее количество запусков сверки хранилища",
	})

	// reconcileRemovedTotal — количество удалённых файлов по типу.
	reconcileRemovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fb_reconcile_removed_total",
		Help: "Общее количество файлов, удалённых сверкой",
	}, []string{"type"})
)

// ReconcileService — сервис фоновой сверки хранилища.
type ReconcileService struct {
	repo      repository.MediaRepository
	store     *filestore.FileStore
	interval  time.Duration
	orphanAge time.Duration
	logger    *slog.Logger

	mu        sync.Mutex // защита от параллельного запуска
	inProcess bool
	cancel    context.CancelFunc
}

// NewReconcileService создаёт сервис сверки.
func NewReconcileService(
	repo repository.MediaRepository,
	store *filestore.FileStore,
	interval time.Duration,
	orphanAge time.Duration,
	logger *slog.Logger,
) *ReconcileService {
	return &ReconcileService{
		repo:      repo,
		store:     store,
		interval:  interval,
		orphanAge: orphanAge,
		logger:    logger.With(slog.String("component", "reconcile")),
	}
}

// Start запускает фоновую горутину сверки с периодическим тикером.
// При нулевом интервале сверка отключена.
func (rs *ReconcileService) Start(ctx context.Context) {
	if rs.interval <= 0 {
		rs.logger.Info("Сверка хранилища отключена")
		return
	}

	rsCtx, cancel := context.WithCancel(ctx)
	rs.cancel = cancel

	go rs.run(rsCtx)

	rs.logger.Info("Сверка хранилища запущена",
		slog.String("interval", rs.interval.String()),
		slog.String("orphan_age", rs.orphanAge.String()),
	)
}

// Stop останавливает фоновый процесс сверки.
func (rs *ReconcileService) Stop() {
	if rs.cancel != nil {
		rs.cancel()
	}
}

// run — основной цикл фоновой горутины.
func (rs *ReconcileService) run(ctx context.Context) {
	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rs.RunOnce(ctx); err != nil {
				rs.logger.Error("Ошибка сверки хранилища",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce выполняет один проход сверки. Повторный вход блокируется.
func (rs *ReconcileService) RunOnce(ctx context.Context) error {
	rs.mu.Lock()
	if rs.inProcess {
		rs.mu.Unlock()
		rs.logger.Warn("Сверка уже выполняется, запуск пропущен")
		return nil
	}
	rs.inProcess = true
	rs.mu.Unlock()

	defer func() {
		rs.mu.Lock()
		rs.inProcess = false
		rs.mu.Unlock()
	}()

	reconcileRunsTotal.Inc()
	start := time.Now()

	records, err := rs.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	// Имена, которым разрешено существовать на диске.
	assets := make(map[string]bool, len(records))
	thumbs := make(map[string]bool, len(records))
	for _, m := range records {
		assets[m.Filename] = true
		thumbs[m.ThumbName()] = true
	}

	cutoff := time.Now().Add(-rs.orphanAge)
	removedAssets := rs.sweepDir(rs.store.UploadDir(), assets, cutoff, "orphaned_asset")
	removedThumbs := rs.sweepDir(rs.store.ThumbDir(), thumbs, cutoff, "orphaned_thumb")

	rs.logger.Info("Сверка хранилища завершена",
		slog.Int("records", len(records)),
		slog.Int("removed_assets", removedAssets),
		slog.Int("removed_thumbs", removedThumbs),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// sweepDir удаляет из директории файлы, которых нет в allowed и которые
// старше cutoff. Поддиректории не затрагиваются.
func (rs *ReconcileService) sweepDir(dir string, allowed map[string]bool, cutoff time.Time, kind string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		rs.logger.Error("Не удалось прочитать директорию",
			slog.String("dir", dir),
			slog.String("error", err.Error()),
		)
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if allowed[name] {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			rs.logger.Warn("Не удалось удалить сироту",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
			continue
		}

		removed++
		reconcileRemovedTotal.WithLabelValues(kind).Inc()
		rs.logger.Info("Сирота удалена",
			slog.String("type", kind),
			slog.String("file", name),
		)
	}
	return removed
}
