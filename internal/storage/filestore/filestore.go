// Пакет filestore — операции с файлами оригиналов и миниатюр на диске.
// Генерация имён хранения, проверка расширений, атомарная запись
// и удаление пары «оригинал + миниатюра».
package filestore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bigkaa/fotobox/internal/domain/model"
)

// allowedExtensions — фиксированный allow-list расширений загрузок.
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// ErrExtNotAllowed — расширение файла вне allow-list.
var ErrExtNotAllowed = errors.New("недопустимое расширение файла")

// ExtOf возвращает расширение имени файла в нижнем регистре без точки.
// Пустая строка, если расширения нет.
func ExtOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// IsAllowedExt сообщает, входит ли расширение имени в allow-list.
// Чистая функция; вызывается до любой записи на диск.
func IsAllowedExt(name string) bool {
	ext := ExtOf(name)
	return ext != "" && allowedExtensions[ext]
}

// GenerateFilename создаёт имя хранения для произвольного клиентского
// имени: сортируемая временная метка + 4 криптослучайных байта в hex +
// проверенное расширение в нижнем регистре.
// Формат: 20060102-150405-a1b2c3d4.jpg
// Клиентское имя не участвует в результате, поэтому path traversal
// со стороны клиента невозможен.
func GenerateFilename(originalName string) (string, error) {
	if !IsAllowedExt(originalName) {
		return "", fmt.Errorf("%w: %q", ErrExtNotAllowed, originalName)
	}

	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("ошибка генерации случайного суффикса: %w", err)
	}

	ts := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s-%s.%s", ts, hex.EncodeToString(suffix[:]), ExtOf(originalName)), nil
}

// FileStore — управление файлами оригиналов и миниатюр.
type FileStore struct {
	uploadDir string
	thumbDir  string
}

// New создаёт FileStore, создавая обе директории при необходимости.
func New(uploadDir, thumbDir string) (*FileStore, error) {
	if err := os.MkdirAll(uploadDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию оригиналов %s: %w", uploadDir, err)
	}
	if err := os.MkdirAll(thumbDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию миниатюр %s: %w", thumbDir, err)
	}
	return &FileStore{uploadDir: uploadDir, thumbDir: thumbDir}, nil
}

// UploadDir возвращает директорию оригиналов.
func (fs *FileStore) UploadDir() string { return fs.uploadDir }

// ThumbDir возвращает директорию миниатюр.
func (fs *FileStore) ThumbDir() string { return fs.thumbDir }

// AssetPath возвращает путь оригинала для имени хранения.
func (fs *FileStore) AssetPath(filename string) string {
	return filepath.Join(fs.uploadDir, filepath.Base(filename))
}

// ThumbPath возвращает путь миниатюры для имени хранения.
func (fs *FileStore) ThumbPath(filename string) string {
	return filepath.Join(fs.thumbDir, model.ThumbNameFor(filepath.Base(filename)))
}

// SaveAsset атомарно записывает оригинал под сгенерированным именем.
// Паттерн: temp файл → запись → fsync → rename.
// При ошибке temp файл удаляется; половинчатый файл не остаётся.
func (fs *FileStore) SaveAsset(filename string, r io.Reader) (int64, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return 0, fmt.Errorf("некорректное имя хранения: %q", filename)
	}

	fullPath := filepath.Join(fs.uploadDir, filename)
	tmpPath := fullPath + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать временный файл: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка записи данных: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка fsync: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка переименования: %w", err)
	}

	return written, nil
}

// RemoveMedia удаляет оригинал и миниатюру для имени хранения.
// Отсутствующие файлы не считаются ошибкой (идемпотентность).
func (fs *FileStore) RemoveMedia(filename string) error {
	var errs []error

	if err := os.Remove(fs.AssetPath(filename)); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("удаление оригинала: %w", err))
	}
	if err := os.Remove(fs.ThumbPath(filename)); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("удаление миниатюры: %w", err))
	}

	return errors.Join(errs...)
}
