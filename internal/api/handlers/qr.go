// qr.go — QR-код со ссылкой на страницу загрузки.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/bigkaa/fotobox/internal/config"
)

const qrImageSize = 512

// QRHandler — генерация QR-кода для гостей.
type QRHandler struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewQRHandler создаёт обработчик QR-кода.
func NewQRHandler(cfg *config.Config, logger *slog.Logger) *QRHandler {
	return &QRHandler{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "qr_handler")),
	}
}

// Handle обрабатывает GET /qr.png — PNG с QR-кодом на /upload.
// Адрес берётся из FB_PUBLIC_BASE_URL, а при его отсутствии — из
// запроса, поэтому ответ не кешируется.
func (h *QRHandler) Handle(w http.ResponseWriter, r *http.Request) {
	target := baseURL(r, h.cfg.PublicBaseURL) + "/upload"

	png, err := qrcode.Encode(target, qrcode.Low, qrImageSize)
	if err != nil {
		h.logger.Error("Ошибка генерации QR-кода", slog.String("error", err.Error()))
		http.Error(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
