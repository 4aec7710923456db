package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
}

type CreatePostRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Status      string   `json:"status"`
	CoverImage  string   `json:"cover_image,omitempty"`
	CategoryIDs []string `json:"category_ids"`
	Tags        []string `json:"tags,omitempty"`
}

type UpdatePostRequest struct {
	Title       *string  `json:"title,omitempty"`
	Content     *string  `json:"content,omitempty"`
	Status      *string  `json:"status,omitempty"`
	CoverImage  *string  `json:"cover_image,omitempty"`
	CategoryIDs []string `json:"category_ids,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Bio   *string `json:"bio,omitempty"`
	Image *string `json:"image,omitempty"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}
