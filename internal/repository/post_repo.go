package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-api/internal/model"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, p model.Post, categoryIDs []string, tagIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create post: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO posts (id, author_id, title, slug, content, status, cover_image, created_at, updated_at, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.AuthorID, p.Title, p.Slug, p.Content, p.Status, p.CoverImage, p.CreatedAt, p.UpdatedAt, p.PublishedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	if err := replacePostLinks(ctx, tx, p.ID, categoryIDs, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create post: %w", err)
	}
	return nil
}

func (r *PostRepository) Update(ctx context.Context, p model.Post, categoryIDs []string, tagIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update post: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE posts SET title = $2, slug = $3, content = $4, status = $5, cover_image = $6,
		        updated_at = $7, published_at = $8
		 WHERE id = $1`,
		p.ID, p.Title, p.Slug, p.Content, p.Status, p.CoverImage, p.UpdatedAt, p.PublishedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}

	if err := replacePostLinks(ctx, tx, p.ID, categoryIDs, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update post: %w", err)
	}
	return nil
}

func replacePostLinks(ctx context.Context, tx pgx.Tx, postID string, categoryIDs []string, tagIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}

	for _, categoryID := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`,
			postID, categoryID); err != nil {
			return fmt.Errorf("link category: %w", err)
		}
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`,
			postID, tagID); err != nil {
			return fmt.Errorf("link tag: %w", err)
		}
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	return r.findOne(ctx, `p.id = $1`, id)
}

func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (model.Post, error) {
	return r.findOne(ctx, `p.slug = $1`, slug)
}

func (r *PostRepository) findOne(ctx context.Context, where string, arg any) (model.Post, error) {
	var p model.Post
	err := r.pool.QueryRow(ctx,
		`SELECT p.id, p.author_id, u.name, p.title, p.slug, p.content, p.status,
		        p.cover_image, p.created_at, p.updated_at, p.published_at
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE `+where, arg).
		Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Slug, &p.Content,
			&p.Status, &p.CoverImage, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post: %w", err)
	}

	if err := r.attachTaxonomy(ctx, &p); err != nil {
		return model.Post{}, err
	}
	return p, nil
}

func (r *PostRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug exists: %w", err)
	}
	return exists, nil
}

// List returns posts matching the filter, newest published first, along with
// the total count for pagination.
func (r *PostRepository) List(ctx context.Context, filter model.PostFilter) ([]model.Post, int, error) {
	conditions := []string{"1=1"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS(SELECT 1 FROM post_categories pc JOIN categories c ON c.id = pc.category_id
			 WHERE pc.post_id = p.id AND c.slug = $%d)`, len(args)))
	}
	if filter.TagSlug != "" {
		args = append(args, filter.TagSlug)
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS(SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
			 WHERE pt.post_id = p.id AND t.slug = $%d)`, len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts p WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.author_id, u.name, p.title, p.slug, p.content, p.status,
		        p.cover_image, p.created_at, p.updated_at, p.published_at
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE `+where+`
		 ORDER BY COALESCE(p.published_at, p.created_at) DESC
		 LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Slug, &p.Content,
			&p.Status, &p.CoverImage, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt); err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range posts {
		if err := r.attachTaxonomy(ctx, &posts[i]); err != nil {
			return nil, 0, err
		}
	}

	return posts, total, nil
}

func (r *PostRepository) attachTaxonomy(ctx context.Context, p *model.Post) error {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.slug FROM categories c
		 JOIN post_categories pc ON pc.category_id = c.id
		 WHERE pc.post_id = $1 ORDER BY c.name`, p.ID)
	if err != nil {
		return fmt.Errorf("load post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		p.Categories = append(p.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := r.pool.Query(ctx,
		`SELECT t.id, t.name, t.slug FROM tags t
		 JOIN post_tags pt ON pt.tag_id = t.id
		 WHERE pt.post_id = $1 ORDER BY t.name`, p.ID)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var t model.Tag
		if err := tagRows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		p.Tags = append(p.Tags, t)
	}
	return tagRows.Err()
}
