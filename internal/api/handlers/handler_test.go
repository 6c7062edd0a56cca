package handlers

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
)

// TestSafeName проверяет фильтр имён из URL.
func TestSafeName(t *testing.T) {
	cases := map[string]bool{
		"20240101-120000-aabbccdd.jpg": true,
		"photo.webp":                   true,
		"":                             false,
		"..":                           false,
		"../etc/passwd":                false,
		"dir/photo.jpg":                false,
		"..hidden.jpg":                 false,
	}
	for name, want := range cases {
		if got := safeName(name); got != want {
			t.Errorf("safeName(%q) = %v, ожидалось %v", name, got, want)
		}
	}
}

// TestBaseURL проверяет выбор базового URL.
func TestBaseURL(t *testing.T) {
	// Настроенный публичный URL имеет приоритет
	r := httptest.NewRequest("GET", "http://internal:8000/", nil)
	if got := baseURL(r, "https://photo.example.com"); got != "https://photo.example.com" {
		t.Errorf("настроенный URL: получено %s", got)
	}

	// Без настройки — из запроса
	r = httptest.NewRequest("GET", "http://fotobox.local:8000/upload", nil)
	if got := baseURL(r, ""); got != "http://fotobox.local:8000" {
		t.Errorf("из запроса: получено %s", got)
	}

	// TLS даёт https
	r = httptest.NewRequest("GET", "http://fotobox.local/", nil)
	r.TLS = &tls.ConnectionState{}
	if got := baseURL(r, ""); got != "https://fotobox.local" {
		t.Errorf("tls: получено %s", got)
	}

	// Заголовок прокси имеет приоритет над схемой соединения
	r = httptest.NewRequest("GET", "http://fotobox.local/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	if got := baseURL(r, ""); got != "https://fotobox.local" {
		t.Errorf("x-forwarded-proto: получено %s", got)
	}
}

// TestClientIP проверяет выделение адреса без порта.
func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.10:54321"
	if got := clientIP(r); got != "192.168.1.10" {
		t.Errorf("получено %s", got)
	}

	r.RemoteAddr = "192.168.1.10"
	if got := clientIP(r); got != "192.168.1.10" {
		t.Errorf("без порта: получено %s", got)
	}
}
