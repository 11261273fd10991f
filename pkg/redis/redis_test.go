package redis

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRevokeTokenIntegration(t *testing.T) {
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("set TEST_INTEGRATION=1 to run against a redis container")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get endpoint: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := New(endpoint, "", 0, logger)
	t.Cleanup(func() { _ = store.Close() })

	revoked, err := store.IsTokenRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("IsTokenRevoked(before) = %v, %v; want false, nil", revoked, err)
	}

	if err := store.RevokeToken(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("RevokeToken() error = %v", err)
	}

	revoked, err = store.IsTokenRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("IsTokenRevoked(after) = %v, %v; want true, nil", revoked, err)
	}

	if err := store.RevokeToken(ctx, "jti-2", 0); err != nil {
		t.Fatalf("RevokeToken(expired) error = %v", err)
	}
	if revoked, _ := store.IsTokenRevoked(ctx, "jti-2"); revoked {
		t.Errorf("already expired token should not be stored")
	}
}
