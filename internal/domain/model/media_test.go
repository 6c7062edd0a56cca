package model

import "testing"

// TestThumbNameFor проверяет имя миниатюры для разных расширений.
func TestThumbNameFor(t *testing.T) {
	cases := map[string]string{
		"20240101-120000-aabbccdd.jpg":  "20240101-120000-aabbccdd.webp",
		"20240101-120000-aabbccdd.png":  "20240101-120000-aabbccdd.webp",
		"20240101-120000-aabbccdd.webp": "20240101-120000-aabbccdd.webp",
		"noext":                         "noext.webp",
	}
	for in, want := range cases {
		if got := ThumbNameFor(in); got != want {
			t.Errorf("ThumbNameFor(%q) = %q, ожидалось %q", in, got, want)
		}
	}
}
