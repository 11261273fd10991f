package jwtPkg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"BlogPlatform/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyHeader   = errors.New("empty Authorization header")
	ErrInvalidFormat = errors.New("invalid Authorization format")
	ErrNoSecret      = errors.New("JWT secret not configured")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims carried by an access token.
type Claims struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Sign issues an HS256 access token for data valid for ttl. The token id
// (jti) is taken from data.TokenID.
func Sign(secret string, data entity.UserLoginData, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrNoSecret
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		ID:          data.ID,
		Username:    data.Username,
		Role:        data.Role,
		Permissions: data.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        data.TokenID,
			Subject:   data.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	logrus.WithFields(logrus.Fields{
		"user_id": data.ID,
		"jti":     data.TokenID,
	}).Debug("Creating access token")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", time.Time{}, err
	}

	return accessToken, expiresAt, nil
}

// Verify parses accessToken and returns the login data it carries.
func Verify(secret string, accessToken string) (entity.UserLoginData, error) {
	if secret == "" {
		return entity.UserLoginData{}, ErrNoSecret
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return entity.UserLoginData{}, err
	}

	if claims.ID == "" || claims.RegisteredClaims.ID == "" {
		return entity.UserLoginData{}, ErrInvalidClaims
	}

	return entity.UserLoginData{
		ID:          claims.ID,
		Username:    claims.Username,
		Role:        claims.Role,
		Permissions: claims.Permissions,
		TokenID:     claims.RegisteredClaims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// VerifyTokenHeader reads the bearer token from the Authorization header.
func VerifyTokenHeader(c *fiber.Ctx, secret string) (entity.UserLoginData, error) {
	log := logrus.WithField("func", "VerifyTokenHeader")

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		log.Debug("Empty Authorization header")
		return entity.UserLoginData{}, ErrEmptyHeader
	}

	accessToken, ok := strings.CutPrefix(header, "Bearer ")
	accessToken = strings.TrimSpace(accessToken)
	if !ok || accessToken == "" {
		log.Debug("Invalid Authorization format")
		return entity.UserLoginData{}, ErrInvalidFormat
	}

	data, err := Verify(secret, accessToken)
	if err != nil {
		log.WithError(err).Debug("Failed to verify token")
		return entity.UserLoginData{}, err
	}

	return data, nil
}

func GetUserLoginData(c *fiber.Ctx) (entity.UserLoginData, error) {
	userData := c.Locals("user")

	user, ok := userData.(entity.UserLoginData)
	if !ok {
		return entity.UserLoginData{}, fiber.ErrUnauthorized
	}

	return user, nil
}
