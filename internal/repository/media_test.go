package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/bigkaa/fotobox/internal/domain/model"
)

// testRepo создаёт временную базу с применёнными миграциями.
func testRepo(t *testing.T) MediaRepository {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if err := Migrate(dbPath, logger); err != nil {
		t.Fatalf("ошибка миграции: %v", err)
	}

	db, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("ошибка открытия базы: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewMediaRepository(db)
}

// TestInsertAndGet проверяет вставку и чтение записи.
func TestInsertAndGet(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	m := &model.Media{
		Filename:   "20240101-120000-aabbccdd.jpg",
		OrigName:   "Свадьба.jpg",
		UploaderIP: "192.168.1.10",
		FileSize:   12345,
		FileType:   "jpg",
	}
	if err := repo.Insert(ctx, m); err != nil {
		t.Fatalf("ошибка вставки: %v", err)
	}
	if m.ID == 0 {
		t.Error("ID должен быть заполнен после вставки")
	}
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt должен быть заполнен после вставки")
	}

	got, err := repo.Get(ctx, m.Filename)
	if err != nil {
		t.Fatalf("ошибка чтения: %v", err)
	}
	if got.OrigName != m.OrigName || got.UploaderIP != m.UploaderIP ||
		got.FileSize != m.FileSize || got.FileType != m.FileType {
		t.Errorf("запись не совпадает: %+v", got)
	}
	// Метка времени хранится в RFC 3339 с точностью до секунды
	if got.CreatedAt.Sub(m.CreatedAt.Truncate(time.Second)) > time.Second {
		t.Errorf("временная метка искажена: %v != %v", got.CreatedAt, m.CreatedAt)
	}
}

// TestInsert_Conflict проверяет ErrConflict при повторном filename:
// существующая запись не перезаписывается.
func TestInsert_Conflict(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	first := &model.Media{Filename: "dup.jpg", OrigName: "первый.jpg", FileType: "jpg"}
	if err := repo.Insert(ctx, first); err != nil {
		t.Fatalf("ошибка вставки: %v", err)
	}

	second := &model.Media{Filename: "dup.jpg", OrigName: "второй.jpg", FileType: "jpg"}
	err := repo.Insert(ctx, second)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("ожидался ErrConflict, получено: %v", err)
	}

	got, err := repo.Get(ctx, "dup.jpg")
	if err != nil {
		t.Fatalf("ошибка чтения: %v", err)
	}
	if got.OrigName != "первый.jpg" {
		t.Errorf("существующая запись перезаписана: %s", got.OrigName)
	}
}

// TestListAll_Order проверяет порядок «новые первыми».
func TestListAll_Order(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		if err := repo.Insert(ctx, &model.Media{Filename: name, OrigName: name, FileType: "jpg"}); err != nil {
			t.Fatalf("ошибка вставки %s: %v", name, err)
		}
	}

	items, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ошибка выборки: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("ожидалось 3 записи, получено %d", len(items))
	}
	want := []string{"c.jpg", "b.jpg", "a.jpg"}
	for i, m := range items {
		if m.Filename != want[i] {
			t.Errorf("позиция %d: ожидалось %s, получено %s", i, want[i], m.Filename)
		}
	}
}

// TestGet_NotFound проверяет ErrNotFound для отсутствующей записи.
func TestGet_NotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.Get(context.Background(), "nonexistent.jpg")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидался ErrNotFound, получено: %v", err)
	}
}

// TestDelete проверяет удаление и его идемпотентность.
func TestDelete(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	m := &model.Media{Filename: "del.jpg", OrigName: "del.jpg", FileType: "jpg"}
	if err := repo.Insert(ctx, m); err != nil {
		t.Fatalf("ошибка вставки: %v", err)
	}

	if err := repo.Delete(ctx, "del.jpg"); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}
	if _, err := repo.Get(ctx, "del.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("запись не удалена: %v", err)
	}

	// Повторное удаление — без ошибки
	if err := repo.Delete(ctx, "del.jpg"); err != nil {
		t.Errorf("повторное удаление должно проходить без ошибки: %v", err)
	}
}

// TestCount проверяет подсчёт записей.
func TestCount(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("ошибка подсчёта: %v", err)
	}
	if n != 0 {
		t.Errorf("пустая база: ожидалось 0, получено %d", n)
	}

	for i, name := range []string{"x.jpg", "y.jpg"} {
		if err := repo.Insert(ctx, &model.Media{Filename: name, OrigName: name, FileType: "jpg"}); err != nil {
			t.Fatalf("ошибка вставки %d: %v", i, err)
		}
	}

	n, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("ошибка подсчёта: %v", err)
	}
	if n != 2 {
		t.Errorf("ожидалось 2 записи, получено %d", n)
	}
}
