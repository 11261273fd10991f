package userHandler

import (
	userService "BlogPlatform/internal/api/user/service"
	"BlogPlatform/internal/entity"
	"BlogPlatform/internal/middleware"
	"BlogPlatform/pkg/redis"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UsersHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	usersService userService.IUsersService
	tokenStore   redis.IRedis
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	us userService.IUsersService,
	tokenStore redis.IRedis,
) *UsersHandler {
	return &UsersHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		usersService: us,
		tokenStore:   tokenStore,
	}
}

func (h *UsersHandler) Start(srv fiber.Router) {
	usersRoute := srv.Group("/user")
	usersRoute.Get("/all", h.GetAllUsers)
	usersRoute.Get("/username/:username", h.GetUserByUsername)
	usersRoute.Get("/:id", h.GetUserByID)
	usersRoute.Post("/", h.CreateUser)
	usersRoute.Patch("/:id/role", h.middleware.NewTokenMiddleware, h.middleware.RequireRole(entity.RoleAdmin), h.AssignRole)
	usersRoute.Patch("/:id", h.middleware.NewOptionalTokenMiddleware, h.UpdateUser)
	usersRoute.Delete("/:id", h.middleware.NewOptionalTokenMiddleware, h.DeleteUser)

	auth := srv.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Get("/me", h.middleware.NewTokenMiddleware, h.Me)
	if h.tokenStore != nil {
		auth.Post("/logout", h.middleware.NewTokenMiddleware, h.Logout)
	}
}
