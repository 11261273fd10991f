package config

import (
	"context"
	"fmt"
	"time"

	"BlogPlatform/database"
	blogHandler "BlogPlatform/internal/api/blog/handler"
	blogRepository "BlogPlatform/internal/api/blog/repository"
	blogService "BlogPlatform/internal/api/blog/service"
	roleHandler "BlogPlatform/internal/api/role/handler"
	roleRepository "BlogPlatform/internal/api/role/repository"
	roleService "BlogPlatform/internal/api/role/service"
	userHandler "BlogPlatform/internal/api/user/handler"
	userRepository "BlogPlatform/internal/api/user/repository"
	userService "BlogPlatform/internal/api/user/service"
	"BlogPlatform/internal/middleware"
	"BlogPlatform/pkg/bcrypt"
	"BlogPlatform/pkg/redis"
	"BlogPlatform/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	appConfig   *AppConfig
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	handlers    []handler
	redisServer redis.IRedis
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.appConfig == nil {
		return nil, fmt.Errorf("app config is required")
	}
	if server.db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.bcryptUtils == nil {
		server.bcryptUtils = bcrypt.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithAppConfig(cfg AppConfig) ServerOption {
	return func(s *Server) error {
		s.appConfig = &cfg
		return nil
	}
}

// WithDatabase connects and migrates the store named by the app config.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		if s.appConfig == nil {
			return fmt.Errorf("app config must be set before database")
		}

		db, err := database.New(s.appConfig.Database(), s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

// WithMiddleware should follow WithDatabase so tokens are checked against
// the role each user holds now.
func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.appConfig == nil {
			return fmt.Errorf("app config must be set before middleware")
		}
		cfg := middleware.Config{
			AccessTokenSecret: s.appConfig.AccessTokenSecret,
			RateLimitRPS:      s.appConfig.RateLimitRPS,
			RateLimitBurst:    s.appConfig.RateLimitBurst,
			TokenStore:        s.redisServer,
		}
		if s.db != nil {
			cfg.RoleResolver = userService.NewRoleResolver(userRepository.New(s.db, s.log))
		}
		s.middleware = middleware.New(s.log, cfg)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

// WithBcrypt overrides the password hasher, mostly to lower the cost in tests.
func WithBcrypt(b bcrypt.IBcrypt) ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = b
		return nil
	}
}

// RegisterHandler builds every domain, seeds the admin account and mounts
// the routes.
func (s *Server) RegisterHandler() error {
	// Role Domain
	roleRepo := roleRepository.New(s.db, s.log)
	roleServices := roleService.NewRolesService(s.log, roleRepo, s.utils)
	roleHandlers := roleHandler.New(s.log, s.validator, s.middleware, roleServices)

	// User Domain
	userRepo := userRepository.New(s.db, s.log)
	userServices := userService.NewUsersService(s.log, userRepo, s.bcryptUtils, s.utils, s.redisServer, userService.TokenConfig{
		AccessTokenSecret: s.appConfig.AccessTokenSecret,
		AccessTokenTTL:    s.appConfig.AccessTokenTTL,
	})
	userHandlers := userHandler.New(s.log, s.validator, s.middleware, userServices, s.redisServer)

	// Blog Domain
	blogRepo := blogRepository.New(s.db, s.log)
	blogServices := blogService.NewBlogsService(s.log, blogRepo, s.utils)
	blogHandlers := blogHandler.New(s.log, s.validator, s.middleware, blogServices)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := userServices.SeedAdmin(ctx, s.appConfig.AdminPassword); err != nil {
		s.log.Errorf("Failed to seed admin account: %v", err)
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	s.handlers = append(s.handlers, roleHandlers, userHandlers, blogHandlers)
	s.mount()
	return nil
}

func (s *Server) mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig(s.log))
	s.engine.Use(s.middleware.NewRateLimiter)
	s.engine.Use(s.middleware.NewMetricsMiddleware())

	s.setupHealthCheck()
	s.engine.Get("/metrics", middleware.MetricsHandler())

	router := s.engine.Group("/api")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

// App exposes the mounted fiber app.
func (s *Server) App() *fiber.App {
	return s.engine
}

func (s *Server) Run() error {
	port := s.appConfig.Port
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops accepting requests and releases the database and redis.
func (s *Server) Shutdown() error {
	err := s.engine.Shutdown()

	if s.redisServer != nil {
		if cerr := s.redisServer.Close(); cerr != nil {
			s.log.Errorf("Failed to close redis: %v", cerr)
		}
	}
	if cerr := s.db.Close(); cerr != nil && err == nil {
		err = cerr
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})

	checker := database.NewReadinessChecker(s.db)
	s.engine.Get("/health/ready", func(ctx *fiber.Ctx) error {
		if err := checker.CheckReady(ctx.UserContext()); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": s.middleware.GetRequestID(ctx),
				"error":      err.Error(),
			}).Error("Readiness check failed")
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
			})
		}
		return ctx.JSON(fiber.Map{
			"status": "ready",
		})
	})
}
