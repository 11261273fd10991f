package roleHandler

import (
	roleService "BlogPlatform/internal/api/role/service"
	"BlogPlatform/internal/entity"
	"BlogPlatform/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RolesHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	rolesService roleService.IRolesService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	rs roleService.IRolesService,
) *RolesHandler {
	return &RolesHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		rolesService: rs,
	}
}

func (h *RolesHandler) Start(srv fiber.Router) {
	rolesRoute := srv.Group("/role", h.middleware.NewTokenMiddleware, h.middleware.RequireRole(entity.RoleAdmin))

	rolesRoute.Get("/all", h.GetAllRoles)
	rolesRoute.Get("/name/:name", h.GetRoleByName)
	rolesRoute.Get("/:id", h.GetRoleByID)
	rolesRoute.Post("/", h.CreateRole)
	rolesRoute.Patch("/:id", h.UpdateRole)
	rolesRoute.Delete("/:id", h.DeleteRole)
}
