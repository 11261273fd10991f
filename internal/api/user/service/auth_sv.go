package userService

import (
	"context"
	"errors"
	"time"

	"BlogPlatform/internal/api/user"
	"BlogPlatform/internal/entity"
	contextPkg "BlogPlatform/pkg/context"
	jwtPkg "BlogPlatform/pkg/jwt"
	"BlogPlatform/pkg/utils"

	"github.com/sirupsen/logrus"
)

func (s *usersService) Login(ctx context.Context, req users.LoginRequest) (users.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.usersRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return users.LoginResponse{}, err
	}

	user, err := repo.Users.GetUserByUsername(ctx, utils.NormalizeName(req.Username))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Login for unknown username")
			return users.LoginResponse{}, users.ErrInvalidCredentials
		}
		return users.LoginResponse{}, err
	}

	ok, err := s.bcryptUtils.ComparePassword(user.PasswordHash, req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Password comparison failed")
		return users.LoginResponse{}, err
	}
	if !ok {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
		}).Warn("Wrong password")
		return users.LoginResponse{}, users.ErrInvalidCredentials
	}

	tokenID, err := s.utils.NewUUID()
	if err != nil {
		return users.LoginResponse{}, err
	}

	token, expiresAt, err := jwtPkg.Sign(s.tokenConfig.AccessTokenSecret, makeLoginData(user, tokenID), s.tokenConfig.AccessTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return users.LoginResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("Token created")

	return users.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Round(time.Second).Seconds()),
	}, nil
}

func (s *usersService) Me(ctx context.Context, userID string) (users.MeResponse, error) {
	repo, err := s.usersRepo.NewClient(false)
	if err != nil {
		return users.MeResponse{}, err
	}

	user, err := repo.Users.GetUserByID(ctx, userID)
	if err != nil {
		return users.MeResponse{}, err
	}

	return users.MeResponse{
		UserResponse: toResponse(user),
		Permissions:  entity.PermissionsFor(user.RoleName),
	}, nil
}

// Logout revokes the caller's token for the rest of its lifetime.
func (s *usersService) Logout(ctx context.Context, user entity.UserLoginData) error {
	requestID := contextPkg.GetRequestID(ctx)

	if s.tokenStore == nil {
		return users.ErrTokenStoreUnavailable
	}

	if err := s.tokenStore.RevokeToken(ctx, user.TokenID, time.Until(user.ExpiresAt)); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to revoke token")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("User logged out")

	return nil
}

// SeedAdmin creates the admin account if it does not exist yet.
func (s *usersService) SeedAdmin(ctx context.Context, password string) error {
	_, err := s.GetUserByUsername(ctx, entity.RoleAdmin)
	if err == nil {
		return nil
	}
	if !errors.Is(err, users.ErrUserNotFound) {
		return err
	}

	_, err = s.createUser(ctx, entity.RoleAdmin, password, entity.RoleAdmin)
	if errors.Is(err, users.ErrUsernameExists) {
		return nil
	}
	return err
}
