package middleware

import (
	"context"
	"slices"
	"time"

	"BlogPlatform/internal/entity"
	jwtPkg "BlogPlatform/pkg/jwt"
	"BlogPlatform/pkg/redis"
	"BlogPlatform/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const unauthorizedMessage = "Unauthorized, access token invalid or expired"

// RoleResolver returns the role a user holds right now. A missing user is
// reported with a response.NewMissing error.
type RoleResolver interface {
	CurrentRole(ctx context.Context, userID string) (string, error)
}

type tokenMiddleware struct {
	secret   string
	store    redis.IRedis
	resolver RoleResolver
}

func newTokenMiddleware(secret string, store redis.IRedis, resolver RoleResolver) *tokenMiddleware {
	return &tokenMiddleware{
		secret:   secret,
		store:    store,
		resolver: resolver,
	}
}

// NewTokenMiddleware verifies the bearer token and stores the caller as
// entity.UserLoginData under the "user" local. With a RoleResolver the role
// is the one stored now, not the one in the token.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	user, err := m.authenticate(ctx)
	if err != nil {
		return m.rejectToken(ctx, err)
	}

	ctx.Locals("user", user)
	return ctx.Next()
}

// NewOptionalTokenMiddleware lets anonymous requests through. A request that
// does carry an Authorization header is checked like NewTokenMiddleware.
func (m *middleware) NewOptionalTokenMiddleware(ctx *fiber.Ctx) error {
	if ctx.Get(fiber.HeaderAuthorization) == "" {
		return ctx.Next()
	}
	return m.NewTokenMiddleware(ctx)
}

func (m *middleware) authenticate(ctx *fiber.Ctx) (entity.UserLoginData, error) {
	requestID := m.GetRequestID(ctx)

	user, err := jwtPkg.VerifyTokenHeader(ctx, m.token.secret)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"error":      err.Error(),
		}).Warn("Token verification failed")
		return entity.UserLoginData{}, fiber.NewError(fiber.StatusUnauthorized, unauthorizedMessage)
	}

	c, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	if m.token.store != nil {
		revoked, err := m.token.store.IsTokenRevoked(c, user.TokenID)
		if err != nil {
			m.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to check token revocation")
			return entity.UserLoginData{}, fiber.NewError(fiber.StatusServiceUnavailable, "Token store unavailable")
		}
		if revoked {
			m.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    user.ID,
			}).Warn("Revoked token used")
			return entity.UserLoginData{}, fiber.NewError(fiber.StatusUnauthorized, unauthorizedMessage)
		}
	}

	if m.token.resolver != nil {
		role, err := m.token.resolver.CurrentRole(c, user.ID)
		if err != nil {
			if response.IsMissing(err) {
				m.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"user_id":    user.ID,
				}).Warn("Token of deleted user used")
				return entity.UserLoginData{}, fiber.NewError(fiber.StatusUnauthorized, unauthorizedMessage)
			}
			m.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to resolve caller role")
			return entity.UserLoginData{}, fiber.NewError(fiber.StatusInternalServerError, "An unexpected error occurred")
		}
		if role != user.Role {
			m.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    user.ID,
				"token_role": user.Role,
				"role":       role,
			}).Debug("Role changed since token was issued")
		}
		user.Role = role
		user.Permissions = entity.PermissionsFor(role)
	}

	m.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Debug("Authentication successful")
	return user, nil
}

func (m *middleware) rejectToken(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusUnauthorized
	message := unauthorizedMessage
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		message = fe.Message
	}
	return ctx.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// RequireRole must run after NewTokenMiddleware.
func (m *middleware) RequireRole(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := jwtPkg.GetUserLoginData(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": unauthorizedMessage,
			})
		}

		if !slices.Contains(roles, user.Role) {
			m.log.WithFields(logrus.Fields{
				"request_id": m.GetRequestID(ctx),
				"user_id":    user.ID,
				"role":       user.Role,
			}).Warn("Role not allowed")
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}

		return ctx.Next()
	}
}
