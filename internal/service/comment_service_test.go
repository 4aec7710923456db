package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go-blog-api/internal/model"
)

type memCommentStore struct {
	byID map[string]model.Comment
}

func newMemCommentStore() *memCommentStore {
	return &memCommentStore{byID: map[string]model.Comment{}}
}

func (m *memCommentStore) Create(_ context.Context, c model.Comment) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memCommentStore) FindByID(_ context.Context, id string) (model.Comment, error) {
	c, ok := m.byID[id]
	if !ok {
		return model.Comment{}, model.ErrCommentNotFound
	}
	return c, nil
}

func (m *memCommentStore) ListByPost(_ context.Context, postID string) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range m.byID {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCommentStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func newCommentFixture(status string) (*CommentService, model.Post) {
	posts := newMemPostStore()
	post := model.Post{
		ID:       "post-1",
		AuthorID: authorClaims.UserID,
		Title:    "Structuring Go Services",
		Slug:     "structuring-go-services",
		Status:   status,
	}
	posts.posts[post.ID] = post

	return NewCommentService(newMemCommentStore(), posts), post
}

func TestCreateComment(t *testing.T) {
	t.Parallel()

	svc, post := newCommentFixture(model.PostStatusPublished)

	comment, err := svc.Create(context.Background(), otherClaims, post.ID, model.CreateCommentRequest{
		Content: "  Great writeup.  ",
	})
	require.NoError(t, err)
	require.Equal(t, "Great writeup.", comment.Content)
	require.Equal(t, otherClaims.UserID, comment.AuthorID)

	comments, err := svc.ListByPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
}

func TestCreateCommentValidation(t *testing.T) {
	t.Parallel()

	svc, post := newCommentFixture(model.PostStatusPublished)

	_, err := svc.Create(context.Background(), otherClaims, post.ID, model.CreateCommentRequest{Content: "   "})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), otherClaims, post.ID, model.CreateCommentRequest{
		Content: strings.Repeat("x", commentMaxLength+1),
	})
	require.Error(t, err)
}

func TestCreateCommentOnDraftIsNotFound(t *testing.T) {
	t.Parallel()

	svc, post := newCommentFixture(model.PostStatusDraft)

	_, err := svc.Create(context.Background(), otherClaims, post.ID, model.CreateCommentRequest{Content: "hi"})
	require.ErrorIs(t, err, model.ErrPostNotFound)

	// The draft's author can still comment on it.
	_, err = svc.Create(context.Background(), authorClaims, post.ID, model.CreateCommentRequest{Content: "note to self"})
	require.NoError(t, err)
}

func TestDeleteCommentPermissions(t *testing.T) {
	t.Parallel()

	svc, post := newCommentFixture(model.PostStatusPublished)

	comment, err := svc.Create(context.Background(), otherClaims, post.ID, model.CreateCommentRequest{Content: "hello"})
	require.NoError(t, err)

	stranger := *adminClaims
	stranger.UserID = "stranger-1"
	stranger.Role = model.RoleUser
	require.ErrorIs(t, svc.Delete(context.Background(), &stranger, comment.ID), model.ErrForbidden)

	// The post author may moderate comments under their post.
	require.NoError(t, svc.Delete(context.Background(), authorClaims, comment.ID))

	// Deleting again reports not found.
	require.ErrorIs(t, svc.Delete(context.Background(), authorClaims, comment.ID), model.ErrCommentNotFound)
}
