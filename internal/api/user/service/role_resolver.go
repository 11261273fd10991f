package userService

import (
	"context"

	userRepository "BlogPlatform/internal/api/user/repository"
)

// RoleResolver looks up the role a user holds now, so guards do not act on
// the role baked into an older token.
type RoleResolver struct {
	usersRepo userRepository.Repository
}

func NewRoleResolver(usersRepo userRepository.Repository) *RoleResolver {
	return &RoleResolver{usersRepo: usersRepo}
}

func (r *RoleResolver) CurrentRole(ctx context.Context, userID string) (string, error) {
	repo, err := r.usersRepo.NewClient(false)
	if err != nil {
		return "", err
	}

	user, err := repo.Users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	return user.RoleName, nil
}
