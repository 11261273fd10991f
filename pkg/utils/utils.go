package utils

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewUUID() (string, error)
	Now() time.Time
}

type utils struct {
	clock func() time.Time
}

func New() IUtils {
	return &utils{
		clock: time.Now,
	}
}

// NewWithClock pins Now to the given clock.
func NewWithClock(clock func() time.Time) IUtils {
	return &utils{
		clock: clock,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) NewUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Now returns the current time in UTC truncated to microseconds, the
// precision both postgres and sqlite keep.
func (u *utils) Now() time.Time {
	return u.clock().UTC().Truncate(time.Microsecond)
}

// NormalizeName trims surrounding whitespace from usernames and role names.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
