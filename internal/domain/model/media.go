// Пакет model — доменные структуры Fotobox.
package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Media — метаданные одной принятой загрузки.
// Запись создаётся только после того, как оригинал надёжно записан
// на диск; отсутствие миниатюры допустимо.
type Media struct {
	// ID — суррогатный ключ; порядок вставки определяет сортировку галереи
	ID int64
	// Filename — сгенерированное имя хранения, уникальное и неизменяемое.
	// Единственный ключ для путей к файлам оригинала и миниатюры.
	Filename string
	// OrigName — имя файла у клиента; только для отображения,
	// никогда не используется в путях файловой системы
	OrigName string
	// UploaderIP — адрес отправителя, best-effort
	UploaderIP string
	// CreatedAt — момент вставки записи (UTC, выставляется сервером)
	CreatedAt time.Time
	// FileSize — заявленный клиентом размер в байтах (не авторитетный)
	FileSize int64
	// FileType — расширение в нижнем регистре (не авторитетное)
	FileType string
}

// ThumbName возвращает имя файла миниатюры для данной записи:
// основа имени хранения + ".webp".
func (m *Media) ThumbName() string {
	return ThumbNameFor(m.Filename)
}

// ThumbNameFor возвращает имя миниатюры для имени хранения.
func ThumbNameFor(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + ".webp"
}
