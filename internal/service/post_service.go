package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/model"
	"go-blog-api/internal/util"
	"go-blog-api/pkg/apierror"
)

const (
	titleMinLength   = 5
	titleMaxLength   = 100
	contentMinLength = 50
)

type postStore interface {
	Create(ctx context.Context, p model.Post, categoryIDs []string, tagIDs []string) error
	Update(ctx context.Context, p model.Post, categoryIDs []string, tagIDs []string) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (model.Post, error)
	FindBySlug(ctx context.Context, slug string) (model.Post, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter model.PostFilter) ([]model.Post, int, error)
}

type taxonomyStore interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	FindCategory(ctx context.Context, id string) (model.Category, error)
	CreateCategory(ctx context.Context, c model.Category) error
	ExistsCategorySlug(ctx context.Context, slug string) (bool, error)
	DeleteCategory(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]model.Tag, error)
	UpsertTag(ctx context.Context, t model.Tag) (model.Tag, error)
}

type PostService struct {
	posts    postStore
	taxonomy taxonomyStore
}

func NewPostService(posts postStore, taxonomy taxonomyStore) *PostService {
	return &PostService{posts: posts, taxonomy: taxonomy}
}

func (s *PostService) Create(ctx context.Context, actor *auth.SessionClaims, req model.CreatePostRequest) (model.Post, error) {
	if err := validatePostInput(req.Title, req.Content, req.Status, req.CategoryIDs); err != nil {
		return model.Post{}, err
	}

	categoryIDs, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return model.Post{}, err
	}

	tagIDs, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return model.Post{}, err
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return model.Post{}, err
	}

	now := time.Now().UTC()
	post := model.Post{
		ID:         uuid.NewString(),
		AuthorID:   actor.UserID,
		AuthorName: actor.Name,
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug,
		Content:    req.Content,
		Status:     req.Status,
		CoverImage: strings.TrimSpace(req.CoverImage),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if post.Status == model.PostStatusPublished {
		post.PublishedAt = &now
	}

	if err := s.posts.Create(ctx, post, categoryIDs, tagIDs); err != nil {
		return model.Post{}, err
	}

	return s.posts.FindByID(ctx, post.ID)
}

func (s *PostService) Update(ctx context.Context, actor *auth.SessionClaims, id string, req model.UpdatePostRequest) (model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	if !canManagePost(actor, post) {
		return model.Post{}, model.ErrForbidden
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Status != nil {
		post.Status = *req.Status
	}
	if req.CoverImage != nil {
		post.CoverImage = strings.TrimSpace(*req.CoverImage)
	}

	categoryIDs := postCategoryIDs(post)
	if req.CategoryIDs != nil {
		categoryIDs = req.CategoryIDs
	}

	if err := validatePostInput(post.Title, post.Content, post.Status, categoryIDs); err != nil {
		return model.Post{}, err
	}

	categoryIDs, err = s.resolveCategories(ctx, categoryIDs)
	if err != nil {
		return model.Post{}, err
	}

	tagIDs := postTagIDs(post)
	if req.Tags != nil {
		tagIDs, err = s.resolveTags(ctx, req.Tags)
		if err != nil {
			return model.Post{}, err
		}
	}

	now := time.Now().UTC()
	post.UpdatedAt = now
	if post.Status == model.PostStatusPublished && post.PublishedAt == nil {
		post.PublishedAt = &now
	}

	if err := s.posts.Update(ctx, post, categoryIDs, tagIDs); err != nil {
		return model.Post{}, err
	}

	return s.posts.FindByID(ctx, post.ID)
}

func (s *PostService) Delete(ctx context.Context, actor *auth.SessionClaims, id string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManagePost(actor, post) {
		return model.ErrForbidden
	}

	return s.posts.Delete(ctx, id)
}

// GetBySlug returns the post if it is published, or if the caller is its
// author or an admin. Drafts stay invisible to everyone else, reported as
// not found rather than forbidden.
func (s *PostService) GetBySlug(ctx context.Context, actor *auth.SessionClaims, slug string) (model.Post, error) {
	post, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return model.Post{}, err
	}

	if post.Status != model.PostStatusPublished && !canManagePost(actor, post) {
		return model.Post{}, model.ErrPostNotFound
	}

	return post, nil
}

// ListPublished serves the public feed: published posts only, newest first.
func (s *PostService) ListPublished(ctx context.Context, filter model.PostFilter) ([]model.Post, int, error) {
	filter.Status = model.PostStatusPublished
	return s.posts.List(ctx, filter)
}

// ListMine returns every post of the author, drafts included.
func (s *PostService) ListMine(ctx context.Context, actor *auth.SessionClaims, filter model.PostFilter) ([]model.Post, int, error) {
	filter.AuthorID = actor.UserID
	filter.Status = ""
	return s.posts.List(ctx, filter)
}

func (s *PostService) resolveCategories(ctx context.Context, ids []string) ([]string, error) {
	seen := map[string]struct{}{}
	resolved := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, err := s.taxonomy.FindCategory(ctx, id); err != nil {
			return nil, err
		}
		resolved = append(resolved, id)
	}
	return resolved, nil
}

func (s *PostService) resolveTags(ctx context.Context, names []string) ([]string, error) {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		slug := util.Slugify(trimmed)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}

		tag, err := s.taxonomy.UpsertTag(ctx, model.Tag{
			ID:   uuid.NewString(),
			Name: trimmed,
			Slug: slug,
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

// uniqueSlug derives a slug from the title and suffixes a counter when the
// base form is taken.
func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		return "", apierror.BadRequest("invalid request body", "title has no usable characters for a slug")
	}

	slug := base
	for i := 2; ; i++ {
		taken, err := s.posts.ExistsBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func validatePostInput(title string, content string, status string, categoryIDs []string) error {
	titleLen := len([]rune(strings.TrimSpace(title)))
	if titleLen < titleMinLength || titleLen > titleMaxLength {
		return apierror.BadRequest("invalid request body",
			fmt.Sprintf("title must be between %d and %d characters", titleMinLength, titleMaxLength))
	}
	if len([]rune(content)) < contentMinLength {
		return apierror.BadRequest("invalid request body",
			fmt.Sprintf("content must be at least %d characters", contentMinLength))
	}
	if !model.ValidPostStatus(status) {
		return apierror.BadRequest("invalid request body", "status must be DRAFT, PUBLISHED, or ARCHIVED")
	}
	if len(categoryIDs) == 0 {
		return apierror.BadRequest("invalid request body", "at least one category is required")
	}
	return nil
}

func canManagePost(actor *auth.SessionClaims, post model.Post) bool {
	if actor == nil {
		return false
	}
	return actor.Role == model.RoleAdmin || actor.UserID == post.AuthorID
}

func postCategoryIDs(post model.Post) []string {
	ids := make([]string, 0, len(post.Categories))
	for _, c := range post.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func postTagIDs(post model.Post) []string {
	ids := make([]string, 0, len(post.Tags))
	for _, t := range post.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}
