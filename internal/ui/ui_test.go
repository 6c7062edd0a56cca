package ui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestHumanSize проверяет форматирование размеров.
func TestHumanSize(t *testing.T) {
	cases := map[int64]string{
		0:       "",
		512:     "512.0 Б",
		1024:    "1.0 КБ",
		1536:    "1.5 КБ",
		1 << 20: "1.0 МБ",
		1 << 30: "1.0 ГБ",
	}
	for size, want := range cases {
		if got := HumanSize(size); got != want {
			t.Errorf("HumanSize(%d) = %q, ожидалось %q", size, got, want)
		}
	}
}

// TestRenderer проверяет отрисовку обеих страниц.
func TestRenderer(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("ошибка разбора шаблонов: %v", err)
	}

	rec := httptest.NewRecorder()
	err = r.Render(rec, "gallery.html", GalleryView{Title: "Тестовая галерея"})
	if err != nil {
		t.Fatalf("ошибка отрисовки галереи: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Тестовая галерея") {
		t.Error("в ответе нет заголовка")
	}

	rec = httptest.NewRecorder()
	err = r.Render(rec, "upload.html", UploadView{Title: "Тест", CodeRequired: true, MaxUploadMB: 32})
	if err != nil {
		t.Fatalf("ошибка отрисовки формы: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="code"`) {
		t.Error("при CodeRequired в форме должно быть поле кодового слова")
	}

	if err := r.Render(httptest.NewRecorder(), "nonexistent.html", nil); err == nil {
		t.Error("неизвестный шаблон должен возвращать ошибку")
	}
}

// TestFlash проверяет цикл добавления и извлечения сообщений.
func TestFlash(t *testing.T) {
	f := NewFlash([]byte("0123456789abcdef0123456789abcdef"))

	// Добавление выставляет cookie
	addRec := httptest.NewRecorder()
	addReq := httptest.NewRequest(http.MethodPost, "/upload", nil)
	f.Add(addRec, addReq, "Фото загружено.")

	cookies := addRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Add должен выставить cookie")
	}

	// Следующий запрос с этой cookie возвращает сообщение
	popReq := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		popReq.AddCookie(c)
	}
	messages := f.Pop(httptest.NewRecorder(), popReq)
	if len(messages) != 1 || messages[0] != "Фото загружено." {
		t.Fatalf("неожиданные сообщения: %v", messages)
	}
}

// TestFlash_Empty проверяет отсутствие сообщений без cookie.
func TestFlash_Empty(t *testing.T) {
	f := NewFlash([]byte("0123456789abcdef0123456789abcdef"))

	messages := f.Pop(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(messages) != 0 {
		t.Errorf("без cookie сообщений быть не должно: %v", messages)
	}
}
