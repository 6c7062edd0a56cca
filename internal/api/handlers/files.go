// files.go — раздача оригиналов и миниатюр.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/fotobox/internal/repository"
	"github.com/bigkaa/fotobox/internal/service"
	"github.com/bigkaa/fotobox/internal/storage/filestore"
)

// FilesHandler — раздача файлов из хранилища.
type FilesHandler struct {
	media  *service.MediaService
	store  *filestore.FileStore
	logger *slog.Logger
}

// NewFilesHandler создаёт обработчик раздачи файлов.
func NewFilesHandler(media *service.MediaService, store *filestore.FileStore, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		media:  media,
		store:  store,
		logger: logger.With(slog.String("component", "files_handler")),
	}
}

// ServeAsset обрабатывает GET /assets/{name} — оригинал файла.
// Файл отдаётся только при наличии записи в базе: файлы, удалённые
// администратором, недоступны даже если остались на диске.
func (h *FilesHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !safeName(name) {
		http.NotFound(w, r)
		return
	}

	if _, err := h.media.Get(r.Context(), name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Ошибка поиска записи", slog.String("error", err.Error()))
		http.Error(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	h.serveFile(w, r, name, h.store.AssetPath(name))
}

// ServeThumb обрабатывает GET /thumbs/{name} — миниатюра.
func (h *FilesHandler) ServeThumb(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !safeName(name) {
		http.NotFound(w, r)
		return
	}
	h.serveFile(w, r, name, h.store.ThumbPath(name))
}

// serveFile отдаёт файл с ETag и поддержкой условных запросов.
func (h *FilesHandler) serveFile(w http.ResponseWriter, r *http.Request, name, path string) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Ошибка открытия файла", slog.String("file", name), slog.String("error", err.Error()))
		http.Error(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("ETag", fmt.Sprintf(`"%x-%x"`, info.Size(), info.ModTime().UnixNano()))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, name, info.ModTime(), f)
}
