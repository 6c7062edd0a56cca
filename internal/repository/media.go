package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bigkaa/fotobox/internal/domain/model"
)

// MediaRepository — интерфейс CRUD для таблицы media.
// Каждая операция — одна короткая инструкция; уникальность filename
// обеспечивается ограничением UNIQUE самой базы, без блокировок
// на уровне приложения.
type MediaRepository interface {
	// Insert создаёт запись; ErrConflict при дубликате filename
	// (существующая запись никогда не перезаписывается).
	Insert(ctx context.Context, m *model.Media) error
	// ListAll возвращает все записи, новые первыми (по порядку вставки).
	ListAll(ctx context.Context) ([]*model.Media, error)
	// Get возвращает запись по filename; ErrNotFound при отсутствии.
	Get(ctx context.Context, filename string) (*model.Media, error)
	// Delete удаляет запись по filename; отсутствие записи — не ошибка.
	Delete(ctx context.Context, filename string) error
	// Count возвращает число записей.
	Count(ctx context.Context) (int, error)
}

// mediaRepo — реализация MediaRepository поверх database/sql.
type mediaRepo struct {
	db *sql.DB
}

// NewMediaRepository создаёт репозиторий записей media.
func NewMediaRepository(db *sql.DB) MediaRepository {
	return &mediaRepo{db: db}
}

func (r *mediaRepo) Insert(ctx context.Context, m *model.Media) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO media (filename, orig_name, uploader_ip, created_at, file_size, file_type)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO NOTHING`,
		m.Filename, m.OrigName, m.UploaderIP,
		m.CreatedAt.UTC().Format(time.RFC3339), m.FileSize, m.FileType,
	)
	if err != nil {
		return fmt.Errorf("ошибка вставки записи: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка вставки записи: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: filename %q", ErrConflict, m.Filename)
	}

	if id, err := res.LastInsertId(); err == nil {
		m.ID = id
	}
	return nil
}

func (r *mediaRepo) ListAll(ctx context.Context) ([]*model.Media, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, orig_name, uploader_ip, created_at, file_size, file_type
		FROM media
		ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки записей: %w", err)
	}
	defer rows.Close()

	var items []*model.Media
	for rows.Next() {
		m, err := scanMedia(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения результата: %w", err)
	}
	return items, nil
}

func (r *mediaRepo) Get(ctx context.Context, filename string) (*model.Media, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, filename, orig_name, uploader_ip, created_at, file_size, file_type
		FROM media
		WHERE filename = ?`, filename)

	m, err := scanMedia(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *mediaRepo) Delete(ctx context.Context, filename string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE filename = ?`, filename); err != nil {
		return fmt.Errorf("ошибка удаления записи: %w", err)
	}
	return nil
}

func (r *mediaRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта записей: %w", err)
	}
	return n, nil
}

// scanMedia читает одну строку в model.Media.
func scanMedia(scan func(dest ...any) error) (*model.Media, error) {
	m := &model.Media{}
	var createdAt string
	var uploaderIP sql.NullString
	var fileSize sql.NullInt64
	var fileType sql.NullString

	if err := scan(&m.ID, &m.Filename, &m.OrigName, &uploaderIP, &createdAt, &fileSize, &fileType); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("ошибка чтения строки: %w", err)
	}

	m.UploaderIP = uploaderIP.String
	m.FileSize = fileSize.Int64
	m.FileType = fileType.String

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("некорректная временная метка %q: %w", createdAt, err)
	}
	m.CreatedAt = ts

	return m, nil
}
