// Пакет thumbnail — генерация миниатюр.
// Декодирование с EXIF-автоповоротом, уменьшение до заданной стороны
// и кодирование в WebP. Двухступенчатый конвейер: Generate пытается
// преобразовать изображение, при любой ошибке вызывающая сторона
// применяет CopyOriginal (побайтовая копия оригинала).
package thumbnail

import (
	"fmt"
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Качество WebP-кодирования миниатюр.
const webpQuality = 85

// Generate декодирует изображение srcPath, применяет EXIF-коррекцию
// ориентации (3 → 180°, 6 → 270°, 8 → 90°; отсутствие или нечитаемый
// EXIF — без поворота), уменьшает так, чтобы ни одна сторона не
// превышала maxEdge (пропорции сохраняются, увеличения не происходит),
// и атомарно записывает WebP в dstPath.
// При ошибке на dstPath не остаётся ни частичного, ни временного файла.
func Generate(srcPath, dstPath string, maxEdge int) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("не удалось открыть оригинал: %w", err)
	}
	defer src.Close()

	// AutoOrientation читает тег Orientation и поворачивает пиксели
	// согласно стандарту EXIF; непригодный EXIF игнорируется.
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("ошибка декодирования изображения: %w", err)
	}

	// Fit уменьшает с сохранением пропорций и никогда не увеличивает.
	resized := imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)

	tmpPath := dstPath + ".tmp"
	dst, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("не удалось создать временный файл миниатюры: %w", err)
	}

	if err := webp.Encode(dst, resized, &webp.Options{Quality: webpQuality}); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка кодирования WebP: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия миниатюры: %w", err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка переименования миниатюры: %w", err)
	}

	return nil
}

// CopyOriginal побайтово копирует оригинал в dstPath — запасной путь,
// когда преобразование не удалось. Запись атомарная (temp + rename).
func CopyOriginal(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("не удалось открыть оригинал: %w", err)
	}
	defer src.Close()

	tmpPath := dstPath + ".tmp"
	dst, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("не удалось создать временный файл: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка копирования: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка переименования: %w", err)
	}

	return nil
}
