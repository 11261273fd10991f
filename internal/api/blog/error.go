package blogs

import (
	"BlogPlatform/internal/api/user"
	"BlogPlatform/pkg/response"
)

var (
	ErrBlogNotFound = response.NewMissing("Blog not found")
	// ErrOwnerNotFound is returned when a blog names a user that does not exist.
	ErrOwnerNotFound = users.ErrUserNotFound
)
