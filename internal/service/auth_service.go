package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type revocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService orchestrates credential verification, token issuance, and the
// revocation deny-list. It holds no per-session state; the token is the
// entire session.
type AuthService struct {
	users           userStore
	revocations     revocationStore
	codec           *auth.TokenCodec
	strictPasswords bool
}

func NewAuthService(users userStore, revocations revocationStore, codec *auth.TokenCodec, strictPasswords bool) *AuthService {
	return &AuthService{
		users:           users,
		revocations:     revocations,
		codec:           codec,
		strictPasswords: strictPasswords,
	}
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.codec.TTL()
}

// Login verifies the credentials and issues a fresh session token. An
// unknown email and a wrong password are reported separately (404 vs 401).
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.PublicUser, string, error) {
	email := strings.TrimSpace(req.Email)
	if !validEmail(email) {
		return model.PublicUser{}, "", apierror.BadRequest("invalid request body", "email must be a valid address")
	}
	if len(req.Password) < 8 {
		return model.PublicUser{}, "", apierror.BadRequest("invalid request body", "password must be at least 8 characters")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return model.PublicUser{}, "", err
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return model.PublicUser{}, "", model.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return model.PublicUser{}, "", err
	}

	return user.Public(), token, nil
}

// Register creates a credential record and signs the new user in, returning
// the same cookie-ready token a login would.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.PublicUser, string, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	if len([]rune(name)) < 2 {
		return model.PublicUser{}, "", apierror.BadRequest("invalid request body", "name must be at least 2 characters")
	}
	if !validEmail(email) {
		return model.PublicUser{}, "", apierror.BadRequest("invalid request body", "email must be a valid address")
	}
	if details, ok := checkRegistrationPassword(req.Password); !ok {
		return model.PublicUser{}, "", apierror.BadRequest("invalid request body", details)
	}
	if s.strictPasswords && !auth.MeetsStrengthPolicy(req.Password) {
		return model.PublicUser{}, "", apierror.BadRequest("invalid request body",
			"password must mix uppercase, lowercase, digits, and symbols")
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.PublicUser{}, "", err
	}
	if taken {
		return model.PublicUser{}, "", apierror.New("ALREADY_EXISTS", "email already registered", "", http.StatusBadRequest)
	}

	digest, err := auth.HashPassword(req.Password)
	if err != nil {
		return model.PublicUser{}, "", err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Role:         model.RoleUser,
		Bio:          strings.TrimSpace(req.Bio),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.PublicUser{}, "", err
	}

	token, err := s.codec.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return model.PublicUser{}, "", err
	}

	return user.Public(), token, nil
}

// Logout adds the token's identifier to the deny-list so the cookie cannot
// be replayed before its natural expiry. An invalid or absent token is a
// no-op: logging out of nothing still succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims := s.codec.Verify(token)
	if claims == nil || claims.ID == "" {
		return nil
	}

	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// VerifySession validates the token and checks the deny-list. Nil means no
// usable session; callers never learn why (fail closed). A deny-list lookup
// failure also yields nil.
func (s *AuthService) VerifySession(ctx context.Context, token string) *auth.SessionClaims {
	if token == "" {
		return nil
	}

	claims := s.codec.Verify(token)
	if claims == nil {
		return nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		slog.Warn("revocation lookup failed; treating session as invalid", "error", err)
		return nil
	}
	if revoked {
		return nil
	}

	return claims
}

// SessionState resolves the identity mirror served by the session probe.
func (s *AuthService) SessionState(ctx context.Context, token string) model.SessionState {
	claims := s.VerifySession(ctx, token)
	if claims == nil {
		return model.SessionState{User: nil, IsAuthenticated: false}
	}

	// Prefer the stored profile so renames and role changes show up without
	// a fresh login; fall back to the claims if the lookup fails.
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.SessionState{
			User: &model.PublicUser{
				ID:    claims.UserID,
				Name:  claims.Name,
				Email: claims.Email,
				Role:  claims.Role,
			},
			IsAuthenticated: true,
		}
	}

	public := user.Public()
	return model.SessionState{User: &public, IsAuthenticated: true}
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

func validEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// checkRegistrationPassword enforces the registration rule: at least 8
// characters with one uppercase letter and one digit.
func checkRegistrationPassword(password string) (string, bool) {
	if len(password) < 8 {
		return "password must be at least 8 characters", false
	}

	var hasUpper, hasDigit bool
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}

	if !hasUpper {
		return "password must contain an uppercase letter", false
	}
	if !hasDigit {
		return "password must contain a digit", false
	}

	return "", true
}
