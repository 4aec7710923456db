package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

type memPostStore struct {
	posts map[string]model.Post
}

func newMemPostStore() *memPostStore {
	return &memPostStore{posts: map[string]model.Post{}}
}

func (m *memPostStore) Create(_ context.Context, p model.Post, categoryIDs []string, _ []string) error {
	for _, id := range categoryIDs {
		p.Categories = append(p.Categories, model.Category{ID: id})
	}
	m.posts[p.ID] = p
	return nil
}

func (m *memPostStore) Update(_ context.Context, p model.Post, categoryIDs []string, _ []string) error {
	p.Categories = nil
	for _, id := range categoryIDs {
		p.Categories = append(p.Categories, model.Category{ID: id})
	}
	m.posts[p.ID] = p
	return nil
}

func (m *memPostStore) Delete(_ context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return model.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memPostStore) FindByID(_ context.Context, id string) (model.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}
	return p, nil
}

func (m *memPostStore) FindBySlug(_ context.Context, slug string) (model.Post, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.Post{}, model.ErrPostNotFound
}

func (m *memPostStore) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPostStore) List(_ context.Context, filter model.PostFilter) ([]model.Post, int, error) {
	var out []model.Post
	for _, p := range m.posts {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

// memTaxonomyStore accepts any category ID it has been seeded with and
// upserts tags by slug.
type memTaxonomyStore struct {
	categories map[string]model.Category
	tagsBySlug map[string]model.Tag
}

func newMemTaxonomyStore(categoryIDs ...string) *memTaxonomyStore {
	store := &memTaxonomyStore{
		categories: map[string]model.Category{},
		tagsBySlug: map[string]model.Tag{},
	}
	for _, id := range categoryIDs {
		store.categories[id] = model.Category{ID: id, Name: id, Slug: id}
	}
	return store
}

func (m *memTaxonomyStore) ListCategories(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *memTaxonomyStore) FindCategory(_ context.Context, id string) (model.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return model.Category{}, model.ErrCategoryNotFound
	}
	return c, nil
}

func (m *memTaxonomyStore) CreateCategory(_ context.Context, c model.Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *memTaxonomyStore) ExistsCategorySlug(_ context.Context, slug string) (bool, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTaxonomyStore) DeleteCategory(_ context.Context, id string) error {
	delete(m.categories, id)
	return nil
}

func (m *memTaxonomyStore) ListTags(_ context.Context) ([]model.Tag, error) {
	out := make([]model.Tag, 0, len(m.tagsBySlug))
	for _, t := range m.tagsBySlug {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTaxonomyStore) UpsertTag(_ context.Context, t model.Tag) (model.Tag, error) {
	if existing, ok := m.tagsBySlug[t.Slug]; ok {
		return existing, nil
	}
	m.tagsBySlug[t.Slug] = t
	return t, nil
}

var (
	authorClaims = &auth.SessionClaims{UserID: "author-1", Email: "ada@example.com", Name: "Ada", Role: model.RoleUser}
	otherClaims  = &auth.SessionClaims{UserID: "other-1", Email: "bob@example.com", Name: "Bob", Role: model.RoleUser}
	adminClaims  = &auth.SessionClaims{UserID: "admin-1", Email: "root@example.com", Name: "Root", Role: model.RoleAdmin}
)

func newPostFixture() (*PostService, *memPostStore) {
	posts := newMemPostStore()
	return NewPostService(posts, newMemTaxonomyStore("cat-go")), posts
}

func validCreateRequest() model.CreatePostRequest {
	return model.CreatePostRequest{
		Title:       "Structuring Go Services",
		Content:     strings.Repeat("Interfaces at the consumer side keep packages small. ", 3),
		Status:      model.PostStatusPublished,
		CategoryIDs: []string{"cat-go"},
		Tags:        []string{"Go", "Architecture"},
	}
}

func TestCreatePost(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()
	post, err := svc.Create(context.Background(), authorClaims, validCreateRequest())
	require.NoError(t, err)

	require.Equal(t, "author-1", post.AuthorID)
	require.Equal(t, "structuring-go-services", post.Slug)
	require.Equal(t, model.PostStatusPublished, post.Status)
	require.NotNil(t, post.PublishedAt)
}

func TestCreatePostDraftHasNoPublishedAt(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()
	req := validCreateRequest()
	req.Status = model.PostStatusDraft

	post, err := svc.Create(context.Background(), authorClaims, req)
	require.NoError(t, err)
	require.Nil(t, post.PublishedAt)
}

func TestCreatePostValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()

	cases := []struct {
		name   string
		mutate func(*model.CreatePostRequest)
	}{
		{"title too short", func(r *model.CreatePostRequest) { r.Title = "Hey" }},
		{"title too long", func(r *model.CreatePostRequest) { r.Title = strings.Repeat("x", 101) }},
		{"content too short", func(r *model.CreatePostRequest) { r.Content = "brief" }},
		{"bad status", func(r *model.CreatePostRequest) { r.Status = "PENDING" }},
		{"no categories", func(r *model.CreatePostRequest) { r.CategoryIDs = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			_, err := svc.Create(context.Background(), authorClaims, req)
			var apiErr *apierror.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, "BAD_REQUEST", apiErr.Code)
		})
	}
}

func TestCreatePostUnknownCategory(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()
	req := validCreateRequest()
	req.CategoryIDs = []string{"cat-missing"}

	_, err := svc.Create(context.Background(), authorClaims, req)
	require.ErrorIs(t, err, model.ErrCategoryNotFound)
}

func TestCreatePostSlugCollision(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()

	first, err := svc.Create(context.Background(), authorClaims, validCreateRequest())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), authorClaims, validCreateRequest())
	require.NoError(t, err)
	third, err := svc.Create(context.Background(), authorClaims, validCreateRequest())
	require.NoError(t, err)

	require.Equal(t, "structuring-go-services", first.Slug)
	require.Equal(t, "structuring-go-services-2", second.Slug)
	require.Equal(t, "structuring-go-services-3", third.Slug)
}

func TestGetBySlugHidesDrafts(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()
	req := validCreateRequest()
	req.Status = model.PostStatusDraft

	post, err := svc.Create(context.Background(), authorClaims, req)
	require.NoError(t, err)

	// Anonymous and unrelated readers see not-found, never forbidden.
	_, err = svc.GetBySlug(context.Background(), nil, post.Slug)
	require.ErrorIs(t, err, model.ErrPostNotFound)
	_, err = svc.GetBySlug(context.Background(), otherClaims, post.Slug)
	require.ErrorIs(t, err, model.ErrPostNotFound)

	// The author and admins see the draft.
	got, err := svc.GetBySlug(context.Background(), authorClaims, post.Slug)
	require.NoError(t, err)
	require.Equal(t, post.ID, got.ID)
	_, err = svc.GetBySlug(context.Background(), adminClaims, post.Slug)
	require.NoError(t, err)
}

func TestUpdatePostPermissions(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()
	post, err := svc.Create(context.Background(), authorClaims, validCreateRequest())
	require.NoError(t, err)

	newTitle := "Structuring Go Services, Revisited"
	_, err = svc.Update(context.Background(), otherClaims, post.ID, model.UpdatePostRequest{Title: &newTitle})
	require.ErrorIs(t, err, model.ErrForbidden)

	updated, err := svc.Update(context.Background(), authorClaims, post.ID, model.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, newTitle, updated.Title)

	// Admins can edit anyone's post.
	adminTitle := "Edited by an admin"
	_, err = svc.Update(context.Background(), adminClaims, post.ID, model.UpdatePostRequest{Title: &adminTitle})
	require.NoError(t, err)
}

func TestUpdatePostKeepsSlugAndPublishedAt(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()
	post, err := svc.Create(context.Background(), authorClaims, validCreateRequest())
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)

	newTitle := "A Completely Different Title"
	updated, err := svc.Update(context.Background(), authorClaims, post.ID, model.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)

	require.Equal(t, post.Slug, updated.Slug)
	require.Equal(t, post.PublishedAt.Unix(), updated.PublishedAt.Unix())
}

func TestPublishingDraftSetsPublishedAt(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()
	req := validCreateRequest()
	req.Status = model.PostStatusDraft

	post, err := svc.Create(context.Background(), authorClaims, req)
	require.NoError(t, err)
	require.Nil(t, post.PublishedAt)

	published := model.PostStatusPublished
	updated, err := svc.Update(context.Background(), authorClaims, post.ID, model.UpdatePostRequest{Status: &published})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
}

func TestDeletePostPermissions(t *testing.T) {
	t.Parallel()

	svc, store := newPostFixture()
	post, err := svc.Create(context.Background(), authorClaims, validCreateRequest())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), otherClaims, post.ID), model.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), authorClaims, post.ID))
	require.Empty(t, store.posts)

	require.ErrorIs(t, svc.Delete(context.Background(), authorClaims, post.ID), model.ErrPostNotFound)
}

func TestListPublishedFiltersDrafts(t *testing.T) {
	t.Parallel()

	svc, _ := newPostFixture()

	_, err := svc.Create(context.Background(), authorClaims, validCreateRequest())
	require.NoError(t, err)

	draft := validCreateRequest()
	draft.Status = model.PostStatusDraft
	_, err = svc.Create(context.Background(), authorClaims, draft)
	require.NoError(t, err)

	posts, total, err := svc.ListPublished(context.Background(), model.PostFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, posts, 1)
	require.Equal(t, model.PostStatusPublished, posts[0].Status)

	mine, total, err := svc.ListMine(context.Background(), authorClaims, model.PostFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, mine, 2)
}
