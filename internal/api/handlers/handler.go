// Пакет handlers — HTTP-обработчики Fotobox: галерея, загрузка,
// отдача файлов, JSON API, административное удаление.
package handlers

import (
	"net"
	"net/http"
	"path/filepath"
	"strings"
)

// Формат отображения временных меток пользователю.
const displayTimeFormat = "2006-01-02 15:04:05"

// clientIP возвращает адрес клиента без порта (best-effort).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// baseURL возвращает абсолютный базовый URL для ссылок и QR-кода:
// настроенный публичный URL, либо выведенный из запроса.
func baseURL(r *http.Request, configured string) string {
	if configured != "" {
		return configured
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// safeName проверяет, что имя из URL — простое имя файла без
// разделителей пути и traversal-компонентов.
func safeName(name string) bool {
	if name == "" || name != filepath.Base(name) {
		return false
	}
	return !strings.Contains(name, "..")
}
