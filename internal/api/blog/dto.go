package blogs

import "time"

type CreateBlogRequest struct {
	UserID  string `json:"user_id" validate:"required,max=36"`
	Title   string `json:"title" validate:"required,min=2,max=100"`
	Content string `json:"content" validate:"required,min=2"`
}

// UpdateBlogRequest is a partial update: empty fields are left unchanged.
type UpdateBlogRequest struct {
	Title   string `json:"title" validate:"omitempty,min=2,max=100"`
	Content string `json:"content" validate:"omitempty,min=2"`
}

type BlogResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	TimeCreated time.Time `json:"time_created"`
	TimeUpdated time.Time `json:"time_updated"`
}
