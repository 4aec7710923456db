package model

import "time"

const (
	PostStatusDraft     = "DRAFT"
	PostStatusPublished = "PUBLISHED"
	PostStatusArchived  = "ARCHIVED"
)

func ValidPostStatus(status string) bool {
	switch status {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

type Post struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	AuthorName  string     `json:"author_name,omitempty"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Status      string     `json:"status"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Categories  []Category `json:"categories,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type Media struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"-"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// PostFilter narrows the public post listing.
type PostFilter struct {
	CategorySlug string
	TagSlug      string
	AuthorID     string
	Status       string
	Page         int
	Limit        int
}
