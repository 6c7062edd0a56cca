// gallery.go — обработчик страницы галереи.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bigkaa/fotobox/internal/config"
	"github.com/bigkaa/fotobox/internal/domain/auth"
	"github.com/bigkaa/fotobox/internal/service"
	"github.com/bigkaa/fotobox/internal/ui"
)

// GalleryHandler — страница галереи со списком всех фотографий.
type GalleryHandler struct {
	media    *service.MediaService
	authz    auth.Authorizer
	renderer *ui.Renderer
	flash    *ui.Flash
	cfg      *config.Config
	logger   *slog.Logger
}

// NewGalleryHandler создаёт обработчик галереи.
func NewGalleryHandler(
	media *service.MediaService,
	authz auth.Authorizer,
	renderer *ui.Renderer,
	flash *ui.Flash,
	cfg *config.Config,
	logger *slog.Logger,
) *GalleryHandler {
	return &GalleryHandler{
		media:    media,
		authz:    authz,
		renderer: renderer,
		flash:    flash,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "gallery_handler")),
	}
}

// Handle обрабатывает GET / — галерея, новые первыми.
// Корректный query-параметр admin включает элементы удаления.
func (h *GalleryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка", slog.String("error", err.Error()))
		http.Error(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	view := ui.GalleryView{
		Title:   h.cfg.Title,
		Flashes: h.flash.Pop(w, r),
		Items:   make([]ui.GalleryItem, 0, len(items)),
	}

	// Админ-токен в query — известный слабый контроль; проверка
	// изолирована за Authorizer.
	if token := r.URL.Query().Get("admin"); h.authz.Authorize(token) {
		view.AdminToken = token
	}

	for _, m := range items {
		view.Items = append(view.Items, ui.GalleryItem{
			Filename:  m.Filename,
			Thumb:     m.ThumbName(),
			OrigName:  m.OrigName,
			CreatedAt: m.CreatedAt.Format(displayTimeFormat),
			SizeHuman: ui.HumanSize(m.FileSize),
		})
	}

	if err := h.renderer.Render(w, "gallery.html", view); err != nil {
		h.logger.Error("Ошибка отрисовки галереи", slog.String("error", err.Error()))
	}
}

// Favicon обрабатывает GET /favicon.ico — пустой ответ.
func (h *GalleryHandler) Favicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
