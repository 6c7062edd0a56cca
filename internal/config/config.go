// Пакет config — загрузка и валидация конфигурации Fotobox
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Fotobox.
type Config struct {
	// Хост HTTP-сервера
	Host string
	// Порт HTTP-сервера
	Port int
	// Путь к директории оригиналов
	UploadDir string
	// Путь к директории миниатюр
	ThumbDir string
	// Путь к файлу базы SQLite
	DBPath string
	// Максимальный размер загрузки в мегабайтах (на запрос и на файл)
	MaxUploadMB int64
	// Максимальная сторона миниатюры в пикселях
	ThumbSize int
	// Заголовок сайта
	Title string
	// Публичный базовый URL для QR-кода и абсолютных ссылок (опционально)
	PublicBaseURL string
	// Кодовое слово для загрузки (опционально; пустое — загрузка без кода)
	UploadCode string
	// Админ-токен; если не задан — генерируется при старте
	AdminToken string
	// AdminTokenGenerated — true, если токен сгенерирован, а не задан явно
	AdminTokenGenerated bool
	// Ключ подписи cookie-сессии flash-сообщений
	SessionSecret []byte
	// Интервал фоновой сверки хранилища (0 — сверка отключена)
	ReconcileInterval time.Duration
	// Минимальный возраст файла-сироты перед удалением сверкой
	OrphanAge time.Duration
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Режим отладки (принудительно debug-уровень логов)
	Debug bool
}

// MaxUploadBytes возвращает лимит загрузки в байтах.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// FB_HOST — хост HTTP-сервера (по умолчанию 0.0.0.0)
	cfg.Host = getEnvDefault("FB_HOST", "0.0.0.0")

	// FB_PORT — порт HTTP-сервера (по умолчанию 8000)
	port, err := getEnvInt("FB_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("FB_PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("FB_PORT: значение %d вне допустимого диапазона 1-65535", port)
	}
	cfg.Port = port

	// FB_UPLOAD_DIR — директория оригиналов (по умолчанию ./uploads)
	cfg.UploadDir = getEnvDefault("FB_UPLOAD_DIR", "uploads")

	// FB_THUMB_DIR — директория миниатюр (по умолчанию <upload>/thumbs)
	cfg.ThumbDir = getEnvDefault("FB_THUMB_DIR", filepath.Join(cfg.UploadDir, "thumbs"))

	// FB_DB_PATH — путь к файлу SQLite (по умолчанию ./uploads.db)
	cfg.DBPath = getEnvDefault("FB_DB_PATH", "uploads.db")

	// FB_MAX_UPLOAD_MB — лимит загрузки в мегабайтах (по умолчанию 32)
	maxMB, err := getEnvInt64("FB_MAX_UPLOAD_MB", 32)
	if err != nil {
		return nil, fmt.Errorf("FB_MAX_UPLOAD_MB: %w", err)
	}
	if maxMB <= 0 {
		return nil, fmt.Errorf("FB_MAX_UPLOAD_MB: значение должно быть положительным, получено %d", maxMB)
	}
	cfg.MaxUploadMB = maxMB

	// FB_THUMB_SIZE — максимальная сторона миниатюры (по умолчанию 640)
	thumbSize, err := getEnvInt("FB_THUMB_SIZE", 640)
	if err != nil {
		return nil, fmt.Errorf("FB_THUMB_SIZE: %w", err)
	}
	if thumbSize <= 0 {
		return nil, fmt.Errorf("FB_THUMB_SIZE: значение должно быть положительным, получено %d", thumbSize)
	}
	cfg.ThumbSize = thumbSize

	// FB_TITLE — заголовок сайта
	cfg.Title = getEnvDefault("FB_TITLE", "Фотобокс")

	// FB_PUBLIC_BASE_URL — публичный базовый URL (опционально)
	cfg.PublicBaseURL = strings.TrimRight(os.Getenv("FB_PUBLIC_BASE_URL"), "/")

	// FB_UPLOAD_CODE — кодовое слово загрузки (опционально)
	cfg.UploadCode = os.Getenv("FB_UPLOAD_CODE")

	// FB_ADMIN_TOKEN — админ-токен; при отсутствии генерируется
	cfg.AdminToken = os.Getenv("FB_ADMIN_TOKEN")
	if cfg.AdminToken == "" {
		cfg.AdminToken = uuid.NewString()
		cfg.AdminTokenGenerated = true
	}

	// FB_SESSION_SECRET — ключ подписи cookie; при отсутствии генерируется
	if secret := os.Getenv("FB_SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = []byte(secret)
	} else {
		cfg.SessionSecret = securecookie.GenerateRandomKey(32)
	}
	if len(cfg.SessionSecret) == 0 {
		return nil, fmt.Errorf("FB_SESSION_SECRET: не удалось получить ключ сессии")
	}

	// FB_RECONCILE_INTERVAL — интервал фоновой сверки (по умолчанию 6h)
	cfg.ReconcileInterval, err = getEnvDuration("FB_RECONCILE_INTERVAL", 6*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("FB_RECONCILE_INTERVAL: %w", err)
	}

	// FB_ORPHAN_AGE — минимальный возраст сироты (по умолчанию 24h)
	cfg.OrphanAge, err = getEnvDuration("FB_ORPHAN_AGE", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("FB_ORPHAN_AGE: %w", err)
	}
	if cfg.OrphanAge < 0 {
		return nil, fmt.Errorf("FB_ORPHAN_AGE: длительность не может быть отрицательной")
	}

	// FB_DEBUG — режим отладки
	cfg.Debug, err = getEnvBool("FB_DEBUG", false)
	if err != nil {
		return nil, fmt.Errorf("FB_DEBUG: %w", err)
	}

	// FB_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("FB_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("FB_LOG_LEVEL: %w", err)
	}
	if cfg.Debug {
		cfg.LogLevel = slog.LevelDebug
	}

	// FB_LOG_FORMAT — формат логов (по умолчанию text)
	cfg.LogFormat = getEnvDefault("FB_LOG_FORMAT", "text")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FB_LOG_FORMAT: допустимы только json и text, получено %q", cfg.LogFormat)
	}

	return cfg, nil
}

// InitDirectories создаёт директории оригиналов и миниатюр.
func (c *Config) InitDirectories() error {
	if err := os.MkdirAll(c.UploadDir, 0o750); err != nil {
		return fmt.Errorf("не удалось создать директорию загрузок %s: %w", c.UploadDir, err)
	}
	if err := os.MkdirAll(c.ThumbDir, 0o750); err != nil {
		return fmt.Errorf("не удалось создать директорию миниатюр %s: %w", c.ThumbDir, err)
	}
	return nil
}

// SetupLogger настраивает slog согласно конфигурации и делает его
// логгером по умолчанию.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 6h)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("неизвестный уровень логирования: %q", level)
	}
}
