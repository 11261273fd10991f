package users

import "time"

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,trimmin=2,max=100"`
	Password string `json:"password" validate:"required,min=2,max=72"`
}

// UpdateUserRequest is a partial update: empty fields are left unchanged.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"omitempty,trimmin=2,max=100"`
	Password string `json:"password" validate:"omitempty,min=2,max=72"`
}

type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,trimmin=2,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	RoleID      string    `json:"role_id"`
	Role        string    `json:"role"`
	TimeCreated time.Time `json:"time_created"`
	TimeUpdated time.Time `json:"time_updated"`
}

type MeResponse struct {
	UserResponse
	Permissions []string `json:"permissions"`
}
