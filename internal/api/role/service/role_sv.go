package roleService

import (
	"context"
	"errors"

	"BlogPlatform/internal/api/role"
	"BlogPlatform/internal/entity"
	contextPkg "BlogPlatform/pkg/context"
	"BlogPlatform/pkg/utils"

	"github.com/sirupsen/logrus"
)

func toResponse(role entity.UserRole) roles.RoleResponse {
	return roles.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: entity.PermissionsFor(role.Name),
	}
}

func (s *rolesService) CreateRole(ctx context.Context, req roles.CreateRoleRequest) (roles.RoleResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	name := utils.NormalizeName(req.Name)

	repo, err := s.rolesRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return roles.RoleResponse{}, err
	}
	defer repo.Rollback()

	_, err = repo.Roles.GetRoleByName(ctx, name)
	if err == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"name":       name,
		}).Warn("Role name already exists")
		return roles.RoleResponse{}, roles.ErrRoleNameExists
	}
	if !errors.Is(err, roles.ErrRoleNotFound) {
		return roles.RoleResponse{}, err
	}

	id, err := s.utils.NewUUID()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate role id")
		return roles.RoleResponse{}, err
	}

	role := entity.UserRole{ID: id, Name: name}
	if err := repo.Roles.CreateRole(ctx, role); err != nil {
		return roles.RoleResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return roles.RoleResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"role_id":    id,
		"name":       name,
	}).Info("Role created")

	return toResponse(role), nil
}

func (s *rolesService) GetRoleByID(ctx context.Context, id string) (roles.RoleResponse, error) {
	repo, err := s.rolesRepo.NewClient(false)
	if err != nil {
		return roles.RoleResponse{}, err
	}

	role, err := repo.Roles.GetRoleByID(ctx, id)
	if err != nil {
		return roles.RoleResponse{}, err
	}

	return toResponse(role), nil
}

func (s *rolesService) GetRoleByName(ctx context.Context, name string) (roles.RoleResponse, error) {
	repo, err := s.rolesRepo.NewClient(false)
	if err != nil {
		return roles.RoleResponse{}, err
	}

	role, err := repo.Roles.GetRoleByName(ctx, utils.NormalizeName(name))
	if err != nil {
		return roles.RoleResponse{}, err
	}

	return toResponse(role), nil
}

func (s *rolesService) GetAllRoles(ctx context.Context) ([]roles.RoleResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.rolesRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	all, err := repo.Roles.GetAllRoles(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to list roles")
		return nil, err
	}

	result := make([]roles.RoleResponse, 0, len(all))
	for _, role := range all {
		result = append(result, toResponse(role))
	}
	return result, nil
}

func (s *rolesService) UpdateRole(ctx context.Context, id string, req roles.UpdateRoleRequest) (roles.RoleResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	name := utils.NormalizeName(req.Name)

	repo, err := s.rolesRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return roles.RoleResponse{}, err
	}
	defer repo.Rollback()

	role, err := repo.Roles.GetRoleByID(ctx, id)
	if err != nil {
		return roles.RoleResponse{}, err
	}

	if role.Name != name && entity.IsProtectedRole(role.Name) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"role":       role.Name,
		}).Warn("Refusing to rename built-in role")
		return roles.RoleResponse{}, roles.ErrRoleProtected
	}

	if role.Name != name {
		existing, err := repo.Roles.GetRoleByName(ctx, name)
		switch {
		case err == nil && existing.ID != id:
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"name":       name,
			}).Warn("Role name already exists")
			return roles.RoleResponse{}, roles.ErrRoleNameExists
		case err != nil && !errors.Is(err, roles.ErrRoleNotFound):
			return roles.RoleResponse{}, err
		}
	}

	role.Name = name
	if err := repo.Roles.UpdateRole(ctx, role); err != nil {
		return roles.RoleResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return roles.RoleResponse{}, err
	}

	return toResponse(role), nil
}

func (s *rolesService) DeleteRole(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.rolesRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}
	defer repo.Rollback()

	role, err := repo.Roles.GetRoleByID(ctx, id)
	if err != nil {
		return err
	}

	if entity.IsProtectedRole(role.Name) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"role":       role.Name,
		}).Warn("Refusing to delete built-in role")
		return roles.ErrRoleProtected
	}

	inUse, err := repo.Roles.CountUsersWithRole(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"role_id":    id,
			"users":      inUse,
		}).Warn("Refusing to delete role in use")
		return roles.ErrRoleInUse
	}

	if err := repo.Roles.DeleteRole(ctx, id); err != nil {
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	return nil
}
