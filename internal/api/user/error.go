package users

import (
	"net/http"

	"BlogPlatform/pkg/response"
)

var (
	ErrUserNotFound          = response.NewMissing("User not found")
	ErrUsernameExists        = response.NewDuplicate("Username already exists")
	ErrInvalidCredentials    = response.NewError(http.StatusUnauthorized, "Invalid username or password")
	ErrTokenStoreUnavailable = response.NewError(http.StatusServiceUnavailable, "Token store is not configured")
	ErrAdminTargetForbidden  = response.NewError(http.StatusForbidden, "Only an admin can modify an admin account")
)
