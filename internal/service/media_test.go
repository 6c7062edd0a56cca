package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/bigkaa/fotobox/internal/domain/model"
	"github.com/bigkaa/fotobox/internal/repository"
)

// TestMediaDelete проверяет удаление записи вместе с файлами.
func TestMediaDelete(t *testing.T) {
	repo := newFakeRepo()
	store := testStore(t)
	ctx := context.Background()

	m := &model.Media{Filename: "20240101-120000-aabbccdd.jpg", OrigName: "a.jpg", FileType: "jpg"}
	if err := repo.Insert(ctx, m); err != nil {
		t.Fatalf("ошибка вставки: %v", err)
	}
	if _, err := store.SaveAsset(m.Filename, bytes.NewReader([]byte("orig"))); err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}
	if err := os.WriteFile(store.ThumbPath(m.Filename), []byte("thumb"), 0o640); err != nil {
		t.Fatalf("ошибка записи миниатюры: %v", err)
	}

	svc := NewMediaService(repo, store, testLogger())
	if err := svc.Delete(ctx, m.Filename); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}

	if _, err := repo.Get(ctx, m.Filename); !errors.Is(err, repository.ErrNotFound) {
		t.Error("запись должна быть удалена из базы")
	}
	if _, err := os.Stat(store.AssetPath(m.Filename)); !os.IsNotExist(err) {
		t.Error("оригинал должен быть удалён")
	}
	if _, err := os.Stat(store.ThumbPath(m.Filename)); !os.IsNotExist(err) {
		t.Error("миниатюра должна быть удалена")
	}

	// Повторное удаление — no-op
	if err := svc.Delete(ctx, m.Filename); err != nil {
		t.Errorf("повторное удаление должно проходить без ошибки: %v", err)
	}
}
