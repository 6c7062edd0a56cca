// upload.go — форма загрузки и приём multipart-пакетов.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bigkaa/fotobox/internal/config"
	"github.com/bigkaa/fotobox/internal/service"
	"github.com/bigkaa/fotobox/internal/ui"
)

// UploadHandler — отображение формы загрузки и обработка multipart POST.
type UploadHandler struct {
	uploads  *service.UploadService
	renderer *ui.Renderer
	flash    *ui.Flash
	cfg      *config.Config
	logger   *slog.Logger
}

// NewUploadHandler создаёт обработчик загрузки.
func NewUploadHandler(
	uploads *service.UploadService,
	renderer *ui.Renderer,
	flash *ui.Flash,
	cfg *config.Config,
	logger *slog.Logger,
) *UploadHandler {
	return &UploadHandler{
		uploads:  uploads,
		renderer: renderer,
		flash:    flash,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "upload_handler")),
	}
}

// ShowForm обрабатывает GET /upload.
func (h *UploadHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	view := ui.UploadView{
		Title:        h.cfg.Title,
		Flashes:      h.flash.Pop(w, r),
		CodeRequired: h.cfg.UploadCode != "",
		MaxUploadMB:  h.cfg.MaxUploadMB,
	}
	if err := h.renderer.Render(w, "upload.html", view); err != nil {
		h.logger.Error("Ошибка отрисовки формы", slog.String("error", err.Error()))
	}
}

// HandleUpload обрабатывает POST /upload: разбирает multipart-форму,
// передаёт файлы сервису и выставляет flash-сообщение с итогом.
// После обработки всегда редирект (PRG), чтобы обновление страницы
// не отправляло файлы повторно.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// Лимит на всё тело запроса плюс запас на остальные поля формы.
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes()+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.logger.Warn("Ошибка разбора multipart-формы", slog.String("error", err.Error()))
		h.flash.Add(w, r, "Не удалось обработать форму. Попробуйте ещё раз.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	var items []service.BatchItem
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["files"] {
			fh := fh
			items = append(items, service.BatchItem{
				Name: fh.Filename,
				Size: fh.Size,
				Open: func() (io.ReadCloser, error) { return fh.Open() },
			})
		}
	}

	code := r.FormValue("code")
	result, err := h.uploads.ProcessBatch(r.Context(), items, clientIP(r), code)
	switch {
	case errors.Is(err, service.ErrWrongCode):
		h.flash.Add(w, r, "Неверное кодовое слово.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	case errors.Is(err, service.ErrNoFiles):
		h.flash.Add(w, r, "Файлы не выбраны.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	case err != nil:
		h.logger.Error("Ошибка обработки пакета", slog.String("error", err.Error()))
		h.flash.Add(w, r, "Внутренняя ошибка сервера.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}

	h.flash.Add(w, r, result.Summary())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
