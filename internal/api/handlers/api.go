// api.go — JSON API: список фотографий и статистика.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/fotobox/internal/api/errors"
	"github.com/bigkaa/fotobox/internal/config"
	"github.com/bigkaa/fotobox/internal/service"
)

// APIHandler — JSON-эндпоинты для интеграций (слайд-шоу, мониторинг).
type APIHandler struct {
	media  *service.MediaService
	cfg    *config.Config
	logger *slog.Logger
}

// NewAPIHandler создаёт обработчик JSON API.
func NewAPIHandler(media *service.MediaService, cfg *config.Config, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		media:  media,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "api_handler")),
	}
}

// listEntry — элемент ответа GET /api/list.
type listEntry struct {
	Filename  string `json:"filename"`
	OrigName  string `json:"orig_name"`
	URL       string `json:"url"`
	ThumbURL  string `json:"thumb_url"`
	CreatedAt string `json:"created_at"`
	FileSize  int64  `json:"file_size"`
	FileType  string `json:"file_type"`
}

// List обрабатывает GET /api/list — массив всех фотографий, новые
// первыми, с абсолютными URL.
func (h *APIHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка", slog.String("error", err.Error()))
		apierrors.InternalError(w, "внутренняя ошибка сервера")
		return
	}

	base := baseURL(r, h.cfg.PublicBaseURL)
	entries := make([]listEntry, 0, len(items))
	for _, m := range items {
		entries = append(entries, listEntry{
			Filename:  m.Filename,
			OrigName:  m.OrigName,
			URL:       base + "/assets/" + m.Filename,
			ThumbURL:  base + "/thumbs/" + m.ThumbName(),
			CreatedAt: m.CreatedAt.Format(displayTimeFormat),
			FileSize:  m.FileSize,
			FileType:  m.FileType,
		})
	}

	writeJSON(w, h.logger, entries)
}

// Stats обрабатывает GET /api/stats.
func (h *APIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.media.Count(r.Context())
	if err != nil {
		h.logger.Error("Ошибка подсчёта записей", slog.String("error", err.Error()))
		apierrors.InternalError(w, "внутренняя ошибка сервера")
		return
	}

	writeJSON(w, h.logger, map[string]any{
		"total_photos": total,
		"status":       "active",
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Ошибка кодирования JSON", slog.String("error", err.Error()))
	}
}
