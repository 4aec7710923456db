package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-api/internal/model"
)

// TaxonomyRepository covers both categories and tags. Categories are managed
// by admins; tags are upserted by name as posts reference them.
type TaxonomyRepository struct {
	pool *pgxpool.Pool
}

func NewTaxonomyRepository(pool *pgxpool.Pool) *TaxonomyRepository {
	return &TaxonomyRepository{pool: pool}
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *TaxonomyRepository) FindCategory(ctx context.Context, id string) (model.Category, error) {
	var c model.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Category{}, model.ErrCategoryNotFound
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

func (r *TaxonomyRepository) CreateCategory(ctx context.Context, c model.Category) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.Slug)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *TaxonomyRepository) ExistsCategorySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}

func (r *TaxonomyRepository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *TaxonomyRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpsertTag creates the tag if its slug is unseen and returns the stored row
// either way.
func (r *TaxonomyRepository) UpsertTag(ctx context.Context, t model.Tag) (model.Tag, error) {
	var stored model.Tag
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tags (id, name, slug) VALUES ($1, $2, $3)
		 ON CONFLICT (slug) DO UPDATE SET name = tags.name
		 RETURNING id, name, slug`,
		t.ID, t.Name, t.Slug).
		Scan(&stored.ID, &stored.Name, &stored.Slug)
	if err != nil {
		return model.Tag{}, fmt.Errorf("upsert tag: %w", err)
	}
	return stored, nil
}
