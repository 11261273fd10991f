package roleService

import (
	"context"

	"BlogPlatform/internal/api/role"
	roleRepository "BlogPlatform/internal/api/role/repository"
	"BlogPlatform/pkg/utils"

	"github.com/sirupsen/logrus"
)

type IRolesService interface {
	CreateRole(ctx context.Context, req roles.CreateRoleRequest) (roles.RoleResponse, error)
	GetRoleByID(ctx context.Context, id string) (roles.RoleResponse, error)
	GetRoleByName(ctx context.Context, name string) (roles.RoleResponse, error)
	GetAllRoles(ctx context.Context) ([]roles.RoleResponse, error)
	UpdateRole(ctx context.Context, id string, req roles.UpdateRoleRequest) (roles.RoleResponse, error)
	DeleteRole(ctx context.Context, id string) error
}

type rolesService struct {
	log       *logrus.Logger
	rolesRepo roleRepository.Repository
	utils     utils.IUtils
}

func NewRolesService(
	log *logrus.Logger,
	rolesRepo roleRepository.Repository,
	utils utils.IUtils,
) IRolesService {
	return &rolesService{
		log:       log,
		rolesRepo: rolesRepo,
		utils:     utils,
	}
}
