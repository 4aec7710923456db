package service

import (
	"context"
	"strings"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

type profileStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	UpdateProfile(ctx context.Context, id string, name string, bio string, image string) error
	UpdateRole(ctx context.Context, id string, role string) error
	List(ctx context.Context) ([]model.PublicUser, error)
}

// UserService covers the profile surface and the admin user management
// operations.
type UserService struct {
	users profileStore
}

func NewUserService(users profileStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Profile(ctx context.Context, userID string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor *auth.SessionClaims, req model.UpdateProfileRequest) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return model.PublicUser{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len([]rune(name)) < 2 {
			return model.PublicUser{}, apierror.BadRequest("invalid request body", "name must be at least 2 characters")
		}
		user.Name = name
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Image != nil {
		user.Image = strings.TrimSpace(*req.Image)
	}

	if err := s.users.UpdateProfile(ctx, user.ID, user.Name, user.Bio, user.Image); err != nil {
		return model.PublicUser{}, err
	}

	return user.Public(), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	return s.users.List(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, userID string, role string) (model.PublicUser, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != model.RoleAdmin && role != model.RoleUser {
		return model.PublicUser{}, apierror.BadRequest("invalid request body", "role must be admin or user")
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}

	return user.Public(), nil
}
