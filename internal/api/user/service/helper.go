package userService

import (
	"BlogPlatform/internal/api/user"
	"BlogPlatform/internal/entity"
)

func toResponse(user entity.User) users.UserResponse {
	return users.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		RoleID:      user.RoleID,
		Role:        user.RoleName,
		TimeCreated: user.TimeCreated,
		TimeUpdated: user.TimeUpdated,
	}
}

func makeLoginData(user entity.User, tokenID string) entity.UserLoginData {
	return entity.UserLoginData{
		ID:          user.ID,
		Username:    user.Username,
		Role:        user.RoleName,
		Permissions: entity.PermissionsFor(user.RoleName),
		TokenID:     tokenID,
	}
}
