// metrics.go — Prometheus HTTP метрики Fotobox.
// Регистрирует метрики: fb_http_requests_total, fb_http_request_duration_seconds.
// Бизнес-метрики (fb_photos_total и др.) регистрируются в сервисном слое.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fb_http_requests_total",
			Help: "Общее количество HTTP-запросов к Fotobox",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fb_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Fotobox в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Бизнес-метрики (экспортируются для обновления из сервисного слоя)
var (
	// PhotosTotal — текущее количество записей в хранилище (gauge).
	PhotosTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fb_photos_total",
		Help: "Текущее количество принятых фотографий",
	})

	// OperationsTotal — общее количество операций с медиа.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fb_operations_total",
			Help: "Общее количество операций с медиафайлами",
		},
		[]string{"operation", "result"},
	)

	// ThumbnailFallbackTotal — число миниатюр, записанных запасной копией
	// вместо преобразования.
	ThumbnailFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fb_thumbnail_fallback_total",
		Help: "Число миниатюр, созданных побайтовой копией после ошибки преобразования",
	})
)

// metricsResponseWriter — обёртка для перехвата статус-кода в метриках.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (mw *metricsResponseWriter) WriteHeader(code int) {
	mw.statusCode = code
	mw.ResponseWriter.WriteHeader(code)
}

func (mw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return mw.ResponseWriter
}

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик: имена файлов
			// заменяются на {name} для предотвращения кардинальности.
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			httpRequestsTotal.WithLabelValues(
				r.Method, normalizedPath, strconv.Itoa(wrapped.statusCode),
			).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).
				Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath сворачивает динамические сегменты в шаблоны.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/assets/"):
		return "/assets/{name}"
	case strings.HasPrefix(path, "/thumbs/"):
		return "/thumbs/{name}"
	default:
		return path
	}
}
