// Пакет ui — HTML-страницы Fotobox (встроенные html/template)
// и flash-сообщения поверх cookie-сессии.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/sessions"
)

//go:embed templates/*.html
var templateFS embed.FS

// Имя cookie-сессии flash-сообщений.
const flashSessionName = "fotobox_flash"

// Renderer — набор изолированных наборов шаблонов, по одному на страницу.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer разбирает встроенные шаблоны.
// Каждая страница собирается вместе с layout в отдельный набор.
func NewRenderer() (*Renderer, error) {
	templates := make(map[string]*template.Template)

	for _, page := range []string{"gallery.html", "upload.html"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора шаблона %s: %w", page, err)
		}
		templates[page] = t
	}

	return &Renderer{templates: templates}, nil
}

// Render отрисовывает страницу name с данными data.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("неизвестный шаблон: %s", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, "layout", data)
}

// Flash — flash-сообщения в подписанной cookie-сессии.
type Flash struct {
	store *sessions.CookieStore
}

// NewFlash создаёт хранилище flash-сообщений с ключом подписи secret.
func NewFlash(secret []byte) *Flash {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flash{store: store}
}

// Add добавляет сообщение, которое будет показано на следующей странице.
func (f *Flash) Add(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := f.store.Get(r, flashSessionName)
	session.AddFlash(message)
	_ = session.Save(r, w)
}

// Pop возвращает накопленные сообщения и очищает их.
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) []string {
	session, _ := f.store.Get(r, flashSessionName)
	raw := session.Flashes()
	if len(raw) > 0 {
		_ = session.Save(r, w)
	}

	messages := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}

// GalleryItem — одна карточка галереи.
type GalleryItem struct {
	Filename  string
	Thumb     string
	OrigName  string
	CreatedAt string
	SizeHuman string
}

// GalleryView — данные страницы галереи.
type GalleryView struct {
	Title   string
	Flashes []string
	Items   []GalleryItem
	// AdminToken непустой, когда предъявлен корректный админ-токен;
	// включает элементы удаления.
	AdminToken string
}

// UploadView — данные страницы загрузки.
type UploadView struct {
	Title        string
	Flashes      []string
	CodeRequired bool
	MaxUploadMB  int64
}

// HumanSize форматирует размер в байтах в человекочитаемый вид.
func HumanSize(size int64) string {
	if size <= 0 {
		return ""
	}
	units := []string{"Б", "КБ", "МБ", "ГБ"}
	val := float64(size)
	i := 0
	for val >= 1024 && i < len(units)-1 {
		val /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", val, units[i])
}
