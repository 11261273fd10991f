package middleware

import (
	"BlogPlatform/pkg/redis"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewOptionalTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewMetricsMiddleware() fiber.Handler
	RequireRole(roles ...string) fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

type Config struct {
	AccessTokenSecret string
	RateLimitRPS      float64
	RateLimitBurst    int
	// TokenStore is optional; without it revoked tokens are not checked.
	TokenStore redis.IRedis
	// RoleResolver is optional; without it the role claim of the token is trusted.
	RoleResolver RoleResolver
}

type middleware struct {
	token               *tokenMiddleware
	rateLimitter        *rateLimiter
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, cfg Config) Middleware {
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 50
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 100
	}

	return &middleware{
		token:               newTokenMiddleware(cfg.AccessTokenSecret, cfg.TokenStore, cfg.RoleResolver),
		rateLimitter:        newRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, limiterIdleTTL),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}
