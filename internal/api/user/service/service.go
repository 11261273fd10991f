package userService

import (
	"context"
	"time"

	"BlogPlatform/internal/api/user"
	userRepository "BlogPlatform/internal/api/user/repository"
	"BlogPlatform/internal/entity"
	"BlogPlatform/pkg/bcrypt"
	"BlogPlatform/pkg/redis"
	"BlogPlatform/pkg/utils"

	"github.com/sirupsen/logrus"
)

type IUsersService interface {
	CreateUser(ctx context.Context, req users.CreateUserRequest) (users.UserResponse, error)
	GetUserByID(ctx context.Context, id string) (users.UserResponse, error)
	GetUserByUsername(ctx context.Context, username string) (users.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]users.UserResponse, error)
	UpdateUser(ctx context.Context, id string, req users.UpdateUserRequest) (users.UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
	AssignRole(ctx context.Context, id string, req users.AssignRoleRequest) (users.UserResponse, error)

	Login(ctx context.Context, req users.LoginRequest) (users.LoginResponse, error)
	Me(ctx context.Context, userID string) (users.MeResponse, error)
	Logout(ctx context.Context, user entity.UserLoginData) error
	SeedAdmin(ctx context.Context, password string) error
}

type TokenConfig struct {
	AccessTokenSecret string
	AccessTokenTTL    time.Duration
}

type usersService struct {
	log         *logrus.Logger
	usersRepo   userRepository.Repository
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
	tokenStore  redis.IRedis
	tokenConfig TokenConfig
}

// NewUsersService wires the users service. tokenStore may be nil, in which
// case Logout is unavailable.
func NewUsersService(
	log *logrus.Logger,
	usersRepo userRepository.Repository,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
	tokenStore redis.IRedis,
	tokenConfig TokenConfig,
) IUsersService {
	if tokenConfig.AccessTokenTTL <= 0 {
		tokenConfig.AccessTokenTTL = time.Hour
	}

	return &usersService{
		log:         log,
		usersRepo:   usersRepo,
		bcryptUtils: bcryptUtils,
		utils:       utils,
		tokenStore:  tokenStore,
		tokenConfig: tokenConfig,
	}
}
