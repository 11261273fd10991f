package userService

import (
	"context"
	"errors"

	"BlogPlatform/internal/api/role"
	"BlogPlatform/internal/api/user"
	"BlogPlatform/internal/entity"
	contextPkg "BlogPlatform/pkg/context"
	"BlogPlatform/pkg/utils"

	"github.com/sirupsen/logrus"
)

func (s *usersService) CreateUser(ctx context.Context, req users.CreateUserRequest) (users.UserResponse, error) {
	return s.createUser(ctx, utils.NormalizeName(req.Username), req.Password, entity.RoleUser)
}

func (s *usersService) createUser(ctx context.Context, username, password, roleName string) (users.UserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.usersRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return users.UserResponse{}, err
	}
	defer repo.Rollback()

	_, err = repo.Users.GetUserByUsername(ctx, username)
	if err == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   username,
		}).Warn("Username already exists")
		return users.UserResponse{}, users.ErrUsernameExists
	}
	if !errors.Is(err, users.ErrUserNotFound) {
		return users.UserResponse{}, err
	}

	role, err := repo.Roles.GetRoleByName(ctx, roleName)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"role":       roleName,
			"error":      err.Error(),
		}).Error("Role for new user is missing")
		return users.UserResponse{}, err
	}

	hash, err := s.bcryptUtils.HashPassword(password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return users.UserResponse{}, err
	}

	id, err := s.utils.NewUUID()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate user id")
		return users.UserResponse{}, err
	}

	now := s.utils.Now()
	user := entity.User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		RoleID:       role.ID,
		RoleName:     role.Name,
		TimeCreated:  now,
		TimeUpdated:  now,
	}

	if err := repo.Users.CreateUser(ctx, user); err != nil {
		return users.UserResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return users.UserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    id,
		"role":       role.Name,
	}).Info("User created")

	return toResponse(user), nil
}

func (s *usersService) GetUserByID(ctx context.Context, id string) (users.UserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.usersRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return users.UserResponse{}, err
	}

	user, err := repo.Users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("User not found")
		}
		return users.UserResponse{}, err
	}

	return toResponse(user), nil
}

func (s *usersService) GetUserByUsername(ctx context.Context, username string) (users.UserResponse, error) {
	repo, err := s.usersRepo.NewClient(false)
	if err != nil {
		return users.UserResponse{}, err
	}

	user, err := repo.Users.GetUserByUsername(ctx, utils.NormalizeName(username))
	if err != nil {
		return users.UserResponse{}, err
	}

	return toResponse(user), nil
}

func (s *usersService) GetAllUsers(ctx context.Context) ([]users.UserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.usersRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	all, err := repo.Users.GetAllUsers(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to list users")
		return nil, err
	}

	result := make([]users.UserResponse, 0, len(all))
	for _, user := range all {
		result = append(result, toResponse(user))
	}
	return result, nil
}

func (s *usersService) UpdateUser(ctx context.Context, id string, req users.UpdateUserRequest) (users.UserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.usersRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return users.UserResponse{}, err
	}
	defer repo.Rollback()

	user, err := repo.Users.GetUserByID(ctx, id)
	if err != nil {
		return users.UserResponse{}, err
	}

	if username := utils.NormalizeName(req.Username); username != "" && username != user.Username {
		existing, err := repo.Users.GetUserByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != user.ID:
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   username,
			}).Warn("Username already exists")
			return users.UserResponse{}, users.ErrUsernameExists
		case err != nil && !errors.Is(err, users.ErrUserNotFound):
			return users.UserResponse{}, err
		}
		user.Username = username
	}

	if req.Password != "" {
		hash, err := s.bcryptUtils.HashPassword(req.Password)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to hash password")
			return users.UserResponse{}, err
		}
		user.PasswordHash = hash
	}

	user.TimeUpdated = s.utils.Now()

	if err := repo.Users.UpdateUser(ctx, user); err != nil {
		return users.UserResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return users.UserResponse{}, err
	}

	return toResponse(user), nil
}

func (s *usersService) DeleteUser(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.usersRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}
	defer repo.Rollback()

	if err := repo.Users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("User to delete not found")
		}
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    id,
	}).Info("User deleted")

	return nil
}

func (s *usersService) AssignRole(ctx context.Context, id string, req users.AssignRoleRequest) (users.UserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.usersRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return users.UserResponse{}, err
	}
	defer repo.Rollback()

	user, err := repo.Users.GetUserByID(ctx, id)
	if err != nil {
		return users.UserResponse{}, err
	}

	role, err := repo.Roles.GetRoleByName(ctx, utils.NormalizeName(req.Role))
	if err != nil {
		if errors.Is(err, roles.ErrRoleNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"role":       req.Role,
			}).Warn("Role to assign not found")
		}
		return users.UserResponse{}, err
	}

	user.RoleID = role.ID
	user.RoleName = role.Name
	user.TimeUpdated = s.utils.Now()

	if err := repo.Users.UpdateUser(ctx, user); err != nil {
		return users.UserResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return users.UserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    id,
		"role":       role.Name,
	}).Info("Role assigned")

	return toResponse(user), nil
}
