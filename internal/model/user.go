package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Bio          string    `json:"bio,omitempty"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the profile shape returned to clients. The password hash
// never leaves the repository layer.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Bio   string `json:"bio,omitempty"`
	Image string `json:"image,omitempty"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Bio:   u.Bio,
		Image: u.Image,
	}
}

// SessionState mirrors the client-side identity cache: populated from the
// session-probe endpoint, never authoritative for access control.
type SessionState struct {
	User            *PublicUser `json:"user"`
	IsAuthenticated bool        `json:"isAuthenticated"`
}
