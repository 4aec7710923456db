package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-api/internal/model"
)

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

func (r *MediaRepository) Create(ctx context.Context, m model.Media) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO media (id, owner_id, filename, path, mime_type, size_bytes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.OwnerID, m.Filename, m.Path, m.MimeType, m.SizeBytes, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	return nil
}

func (r *MediaRepository) FindByID(ctx context.Context, id string) (model.Media, error) {
	var m model.Media
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, filename, path, mime_type, size_bytes, created_at
		 FROM media WHERE id = $1`, id).
		Scan(&m.ID, &m.OwnerID, &m.Filename, &m.Path, &m.MimeType, &m.SizeBytes, &m.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Media{}, model.ErrMediaNotFound
	}
	if err != nil {
		return model.Media{}, fmt.Errorf("find media: %w", err)
	}
	return m, nil
}

func (r *MediaRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Media, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, filename, path, mime_type, size_bytes, created_at
		 FROM media WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	items := make([]model.Media, 0)
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Filename, &m.Path, &m.MimeType, &m.SizeBytes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
