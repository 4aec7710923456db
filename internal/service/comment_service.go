package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

const commentMaxLength = 2000

type commentStore interface {
	Create(ctx context.Context, c model.Comment) error
	FindByID(ctx context.Context, id string) (model.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
	Delete(ctx context.Context, id string) error
}

type CommentService struct {
	comments commentStore
	posts    postStore
}

func NewCommentService(comments commentStore, posts postStore) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

func (s *CommentService) Create(ctx context.Context, actor *auth.SessionClaims, postID string, req model.CreateCommentRequest) (model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return model.Comment{}, apierror.BadRequest("invalid request body", "comment content is required")
	}
	if len([]rune(content)) > commentMaxLength {
		return model.Comment{}, apierror.BadRequest("invalid request body", "comment is too long")
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return model.Comment{}, err
	}
	if post.Status != model.PostStatusPublished && !canManagePost(actor, post) {
		return model.Comment{}, model.ErrPostNotFound
	}

	comment := model.Comment{
		ID:         uuid.NewString(),
		PostID:     post.ID,
		AuthorID:   actor.UserID,
		AuthorName: actor.Name,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return model.Comment{}, err
	}

	return comment, nil
}

// Delete allows the comment author, the post author, or an admin.
func (s *CommentService) Delete(ctx context.Context, actor *auth.SessionClaims, id string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}

	allowed := actor.Role == model.RoleAdmin || actor.UserID == comment.AuthorID
	if !allowed {
		post, err := s.posts.FindByID(ctx, comment.PostID)
		if err == nil && post.AuthorID == actor.UserID {
			allowed = true
		}
	}
	if !allowed {
		return model.ErrForbidden
	}

	return s.comments.Delete(ctx, id)
}
