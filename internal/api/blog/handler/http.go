package blogHandler

import (
	blogService "BlogPlatform/internal/api/blog/service"
	"BlogPlatform/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type BlogsHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	blogsService blogService.IBlogsService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	bs blogService.IBlogsService,
) *BlogsHandler {
	return &BlogsHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		blogsService: bs,
	}
}

func (h *BlogsHandler) Start(srv fiber.Router) {
	blogsRoute := srv.Group("/blog")

	blogsRoute.Get("/all", h.GetAllBlogs)
	blogsRoute.Get("/user/:user_id", h.GetBlogsByUserID)
	blogsRoute.Get("/:id", h.GetBlogByID)
	blogsRoute.Post("/", h.CreateBlog)
	blogsRoute.Patch("/:id", h.UpdateBlog)
	blogsRoute.Delete("/:id", h.DeleteBlog)
}
