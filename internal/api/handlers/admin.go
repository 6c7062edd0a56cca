// admin.go — административное удаление фотографий.
package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bigkaa/fotobox/internal/domain/auth"
	"github.com/bigkaa/fotobox/internal/service"
	"github.com/bigkaa/fotobox/internal/ui"
)

// AdminHandler — операции, требующие админ-токен.
type AdminHandler struct {
	media  *service.MediaService
	authz  auth.Authorizer
	flash  *ui.Flash
	logger *slog.Logger
}

// NewAdminHandler создаёт обработчик административных операций.
func NewAdminHandler(media *service.MediaService, authz auth.Authorizer, flash *ui.Flash, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		media:  media,
		authz:  authz,
		flash:  flash,
		logger: logger.With(slog.String("component", "admin_handler")),
	}
}

// Delete обрабатывает POST /admin/delete. Удаляет запись и файлы;
// операция идемпотентна — повторное удаление проходит без ошибки.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("admin_token")
	if !h.authz.Authorize(token) {
		h.logger.Warn("Отказ в удалении: неверный токен", slog.String("remote", clientIP(r)))
		http.Error(w, "доступ запрещён", http.StatusForbidden)
		return
	}

	filename := r.FormValue("filename")
	if filename == "" || !safeName(filename) {
		http.Error(w, "не указано имя файла", http.StatusBadRequest)
		return
	}

	if err := h.media.Delete(r.Context(), filename); err != nil {
		h.logger.Error("Ошибка удаления", slog.String("file", filename), slog.String("error", err.Error()))
		http.Error(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	h.flash.Add(w, r, "Фото удалено.")
	http.Redirect(w, r, "/?admin="+url.QueryEscape(token), http.StatusSeeOther)
}
