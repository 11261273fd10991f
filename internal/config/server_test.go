package config

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"BlogPlatform/internal/testutil"
	"BlogPlatform/pkg/bcrypt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	gobcrypt "golang.org/x/crypto/bcrypt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := testutil.Logger()
	cfg := AppConfig{
		Env:               EnvTest,
		DBDriver:          "sqlite3",
		DBURI:             fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		AccessTokenSecret: "server-test-secret",
		AccessTokenTTL:    time.Hour,
		AdminPassword:     "admin-password",
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
	}

	srv, err := NewServer(
		WithFiber(NewFiber(logger)),
		WithLogger(logger),
		WithValidator(NewValidator()),
		WithAppConfig(cfg),
		WithDatabase(),
		WithMiddleware(),
		WithBcrypt(bcrypt.NewWithCost(gobcrypt.MinCost)),
		WithUtils(),
	)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.db.Close() })

	if err := srv.RegisterHandler(); err != nil {
		t.Fatalf("RegisterHandler() error = %v", err)
	}
	return srv.App()
}

func do(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	if status != http.StatusOK {
		t.Fatalf("login %s = %d %s", username, status, body)
	}
	return decode[map[string]any](t, body)["access_token"].(string)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/", nil, "")
	if status != http.StatusOK || decode[map[string]string](t, body)["message"] != "Server is Healthy!" {
		t.Errorf("GET / = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/health/ready", nil, "")
	if status != http.StatusOK || decode[map[string]string](t, body)["status"] != "ready" {
		t.Errorf("GET /health/ready = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/metrics", nil, "")
	if status != http.StatusOK || !bytes.Contains(body, []byte("blog_http_requests_total")) {
		t.Errorf("GET /metrics = %d, missing request counter", status)
	}
}

func TestCreateUserTwice(t *testing.T) {
	app := newTestApp(t)
	req := map[string]string{"username": "alice", "password": "secret123"}

	status, body := do(t, app, http.MethodPost, "/api/user/", req, "")
	if status != http.StatusCreated {
		t.Fatalf("first create = %d %s", status, body)
	}
	created := decode[map[string]any](t, body)
	if created["username"] != "alice" || created["role"] != "user" || created["id"] == "" {
		t.Errorf("created user = %v", created)
	}
	if _, ok := created["password"]; ok {
		t.Errorf("response leaks password: %s", body)
	}

	status, body = do(t, app, http.MethodPost, "/api/user/", req, "")
	if status != http.StatusBadRequest {
		t.Fatalf("second create = %d %s", status, body)
	}
	if got := decode[map[string]string](t, body)["error"]; got != "Username already exists" {
		t.Errorf("second create error = %q", got)
	}
}

func TestUserEndpoints(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		err    string
	}{
		{"unknown id", http.MethodGet, "/api/user/nope", nil, http.StatusNotFound, "User not found"},
		{"unknown username", http.MethodGet, "/api/user/username/nope", nil, http.StatusNotFound, "User not found"},
		{"delete unknown", http.MethodDelete, "/api/user/nope", nil, http.StatusNotFound, "User not found"},
		{"update unknown", http.MethodPatch, "/api/user/nope", map[string]string{"username": "ghost"}, http.StatusNotFound, "User not found"},
		{"empty username", http.MethodPost, "/api/user/", map[string]string{"username": "", "password": "pw"}, http.StatusUnprocessableEntity, ""},
		{"missing password", http.MethodPost, "/api/user/", map[string]string{"username": "bob"}, http.StatusUnprocessableEntity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body, "")
			if status != tt.status {
				t.Fatalf("%s %s = %d %s, want %d", tt.method, tt.path, status, body, tt.status)
			}
			if tt.err != "" {
				if got := decode[map[string]string](t, body)["error"]; got != tt.err {
					t.Errorf("error = %q, want %q", got, tt.err)
				}
			}
		})
	}

	status, body := do(t, app, http.MethodGet, "/api/user/all", nil, "")
	if status != http.StatusOK {
		t.Fatalf("GET /api/user/all = %d %s", status, body)
	}
	if all := decode[[]map[string]any](t, body); len(all) != 1 || all[0]["username"] != "admin" {
		t.Errorf("users = %v, want only the seeded admin", all)
	}

	status, body = do(t, app, http.MethodPost, "/api/user/", map[string]string{"username": "bob", "password": "pw"}, "")
	if status != http.StatusCreated {
		t.Fatalf("create bob = %d %s", status, body)
	}
	bob := decode[map[string]any](t, body)

	status, body = do(t, app, http.MethodPatch, "/api/user/"+bob["id"].(string), map[string]string{"username": "robert"}, "")
	if status != http.StatusOK || decode[map[string]any](t, body)["username"] != "robert" {
		t.Errorf("rename = %d %s", status, body)
	}

	status, _ = do(t, app, http.MethodDelete, "/api/user/"+bob["id"].(string), nil, "")
	if status != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", status)
	}
}

func TestBlogLifecycle(t *testing.T) {
	app := newTestApp(t)

	_, body := do(t, app, http.MethodPost, "/api/user/", map[string]string{"username": "alice", "password": "pw"}, "")
	userID := decode[map[string]any](t, body)["id"].(string)

	status, body := do(t, app, http.MethodPost, "/api/blog/", map[string]string{
		"user_id": "ghost", "title": "Hello", "content": "First post",
	}, "")
	if status != http.StatusNotFound || decode[map[string]string](t, body)["error"] != "User not found" {
		t.Errorf("blog for unknown user = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodPost, "/api/blog/", map[string]string{"user_id": userID, "title": "x"}, "")
	if status != http.StatusUnprocessableEntity {
		t.Errorf("invalid blog = %d %s, want 422", status, body)
	}

	status, body = do(t, app, http.MethodPost, "/api/blog/", map[string]string{
		"user_id": userID, "title": "Hello", "content": "First post",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("create blog = %d %s", status, body)
	}
	blogID := decode[map[string]any](t, body)["id"].(string)

	status, body = do(t, app, http.MethodGet, "/api/blog/user/"+userID, nil, "")
	if list := decode[[]map[string]any](t, body); status != http.StatusOK || len(list) != 1 {
		t.Errorf("blogs by user = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodPatch, "/api/blog/"+blogID, map[string]string{"content": "Edited"}, "")
	updated := decode[map[string]any](t, body)
	if status != http.StatusOK || updated["content"] != "Edited" || updated["title"] != "Hello" {
		t.Errorf("update blog = %d %s", status, body)
	}

	status, _ = do(t, app, http.MethodDelete, "/api/blog/"+blogID, nil, "")
	if status != http.StatusNoContent {
		t.Fatalf("delete blog = %d, want 204", status)
	}

	status, body = do(t, app, http.MethodGet, "/api/blog/"+blogID, nil, "")
	if status != http.StatusNotFound || decode[map[string]string](t, body)["error"] != "Blog not found" {
		t.Errorf("get deleted blog = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/api/blog/all", nil, "")
	if list := decode[[]map[string]any](t, body); status != http.StatusOK || len(list) != 0 {
		t.Errorf("all blogs after delete = %d %s", status, body)
	}
}

func TestRolesRequireAdmin(t *testing.T) {
	app := newTestApp(t)

	status, _ := do(t, app, http.MethodGet, "/api/role/all", nil, "")
	if status != http.StatusUnauthorized {
		t.Errorf("roles without token = %d, want 401", status)
	}

	do(t, app, http.MethodPost, "/api/user/", map[string]string{"username": "alice", "password": "secret123"}, "")
	userToken := login(t, app, "alice", "secret123")

	status, _ = do(t, app, http.MethodGet, "/api/role/all", nil, userToken)
	if status != http.StatusForbidden {
		t.Errorf("roles as user = %d, want 403", status)
	}

	adminToken := login(t, app, "admin", "admin-password")

	status, body := do(t, app, http.MethodGet, "/api/role/all", nil, adminToken)
	if list := decode[[]map[string]any](t, body); status != http.StatusOK || len(list) != 3 {
		t.Fatalf("roles as admin = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodPost, "/api/role/", map[string]string{"name": "editor"}, adminToken)
	if status != http.StatusCreated {
		t.Fatalf("create role = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodPost, "/api/role/", map[string]string{"name": "editor"}, adminToken)
	if status != http.StatusBadRequest || decode[map[string]string](t, body)["error"] != "Role name already exists" {
		t.Errorf("duplicate role = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/api/role/name/editor", nil, adminToken)
	if status != http.StatusOK || decode[map[string]any](t, body)["name"] != "editor" {
		t.Errorf("role by name = %d %s", status, body)
	}

	_, body = do(t, app, http.MethodGet, "/api/user/username/alice", nil, "")
	aliceID := decode[map[string]any](t, body)["id"].(string)

	status, _ = do(t, app, http.MethodPatch, "/api/user/"+aliceID+"/role", map[string]string{"role": "moderator"}, userToken)
	if status != http.StatusForbidden {
		t.Errorf("assign role as user = %d, want 403", status)
	}

	status, body = do(t, app, http.MethodPatch, "/api/user/"+aliceID+"/role", map[string]string{"role": "moderator"}, adminToken)
	if status != http.StatusOK || decode[map[string]any](t, body)["role"] != "moderator" {
		t.Errorf("assign role as admin = %d %s", status, body)
	}
}

func TestLoginAndMe(t *testing.T) {
	app := newTestApp(t)

	do(t, app, http.MethodPost, "/api/user/", map[string]string{"username": "alice", "password": "secret123"}, "")

	status, body := do(t, app, http.MethodPost, "/api/auth/login", map[string]string{"username": "alice", "password": "wrong"}, "")
	if status != http.StatusUnauthorized {
		t.Errorf("login with wrong password = %d %s", status, body)
	}

	token := login(t, app, "alice", "secret123")

	status, body = do(t, app, http.MethodGet, "/api/auth/me", nil, token)
	if status != http.StatusOK {
		t.Fatalf("GET /api/auth/me = %d %s", status, body)
	}
	me := decode[map[string]any](t, body)
	if me["username"] != "alice" || len(me["permissions"].([]any)) != 3 {
		t.Errorf("me = %v", me)
	}

	status, _ = do(t, app, http.MethodGet, "/api/auth/me", nil, "garbage")
	if status != http.StatusUnauthorized {
		t.Errorf("me with bad token = %d, want 401", status)
	}

	status, _ = do(t, app, http.MethodPost, "/api/auth/logout", nil, token)
	if status != http.StatusNotFound {
		t.Errorf("logout without token store = %d, want 404", status)
	}
}

func TestPaddedNamesRejected(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, "admin", "admin-password")

	_, body := do(t, app, http.MethodPost, "/api/user/", map[string]string{"username": "alice", "password": "pw"}, "")
	aliceID := decode[map[string]any](t, body)["id"].(string)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		token  string
	}{
		{"blank username", http.MethodPost, "/api/user/", map[string]string{"username": "   ", "password": "pw"}, ""},
		{"one letter username", http.MethodPost, "/api/user/", map[string]string{"username": " a ", "password": "pw"}, ""},
		{"rename to one letter", http.MethodPatch, "/api/user/" + aliceID, map[string]string{"username": "  b  "}, ""},
		{"blank role", http.MethodPost, "/api/role/", map[string]string{"name": "    "}, adminToken},
		{"one letter role", http.MethodPost, "/api/role/", map[string]string{"name": " x "}, adminToken},
		{"assign blank role", http.MethodPatch, "/api/user/" + aliceID + "/role", map[string]string{"role": "   "}, adminToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body, tt.token)
			if status != http.StatusUnprocessableEntity {
				t.Errorf("%s %s = %d %s, want 422", tt.method, tt.path, status, body)
			}
		})
	}

	status, body := do(t, app, http.MethodPost, "/api/user/", map[string]string{"username": "  bob  ", "password": "pw"}, "")
	if status != http.StatusCreated || decode[map[string]any](t, body)["username"] != "bob" {
		t.Errorf("padded valid username = %d %s, want 201 bob", status, body)
	}
}

func TestAdminAccountNeedsAdminToken(t *testing.T) {
	app := newTestApp(t)

	_, body := do(t, app, http.MethodGet, "/api/user/username/admin", nil, "")
	adminID := decode[map[string]any](t, body)["id"].(string)

	do(t, app, http.MethodPost, "/api/user/", map[string]string{"username": "alice", "password": "secret123"}, "")
	userToken := login(t, app, "alice", "secret123")

	for _, token := range []string{"", userToken} {
		status, body := do(t, app, http.MethodPatch, "/api/user/"+adminID, map[string]string{"password": "taken-over"}, token)
		if status != http.StatusForbidden {
			t.Errorf("PATCH admin with token %v = %d %s, want 403", token != "", status, body)
		}

		status, body = do(t, app, http.MethodDelete, "/api/user/"+adminID, nil, token)
		if status != http.StatusForbidden {
			t.Errorf("DELETE admin with token %v = %d %s, want 403", token != "", status, body)
		}
	}

	status, _ := do(t, app, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "taken-over"}, "")
	if status != http.StatusUnauthorized {
		t.Errorf("login with rejected password = %d, want 401", status)
	}

	adminToken := login(t, app, "admin", "admin-password")
	status, body = do(t, app, http.MethodPatch, "/api/user/"+adminID, map[string]string{"password": "new-admin-password"}, adminToken)
	if status != http.StatusOK {
		t.Fatalf("PATCH admin as admin = %d %s", status, body)
	}
	login(t, app, "admin", "new-admin-password")
}

func TestBuiltinRolesCannotBeRemoved(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, "admin", "admin-password")

	for _, name := range []string{"user", "admin"} {
		_, body := do(t, app, http.MethodGet, "/api/role/name/"+name, nil, adminToken)
		roleID := decode[map[string]any](t, body)["id"].(string)

		status, body := do(t, app, http.MethodDelete, "/api/role/"+roleID, nil, adminToken)
		if status != http.StatusBadRequest || decode[map[string]string](t, body)["error"] != "Built-in role cannot be renamed or deleted" {
			t.Errorf("delete %s role = %d %s, want 400", name, status, body)
		}

		status, body = do(t, app, http.MethodPatch, "/api/role/"+roleID, map[string]string{"name": name + "-renamed"}, adminToken)
		if status != http.StatusBadRequest {
			t.Errorf("rename %s role = %d %s, want 400", name, status, body)
		}
	}

	status, body := do(t, app, http.MethodPost, "/api/user/", map[string]string{"username": "alice", "password": "pw"}, "")
	if status != http.StatusCreated {
		t.Errorf("create user after role checks = %d %s", status, body)
	}
}

func TestStaleTokenUsesCurrentRole(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, "admin", "admin-password")

	_, body := do(t, app, http.MethodPost, "/api/user/", map[string]string{"username": "bob", "password": "secret123"}, "")
	bobID := decode[map[string]any](t, body)["id"].(string)

	status, body := do(t, app, http.MethodPatch, "/api/user/"+bobID+"/role", map[string]string{"role": "admin"}, adminToken)
	if status != http.StatusOK {
		t.Fatalf("promote bob = %d %s", status, body)
	}
	bobToken := login(t, app, "bob", "secret123")

	status, body = do(t, app, http.MethodPost, "/api/role/", map[string]string{"name": "editor"}, bobToken)
	if status != http.StatusCreated {
		t.Fatalf("create role as admin bob = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodPatch, "/api/user/"+bobID+"/role", map[string]string{"role": "user"}, adminToken)
	if status != http.StatusOK {
		t.Fatalf("demote bob = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodPost, "/api/role/", map[string]string{"name": "reviewer"}, bobToken)
	if status != http.StatusForbidden {
		t.Errorf("create role with demoted token = %d %s, want 403", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/api/auth/me", nil, bobToken)
	if status != http.StatusOK || decode[map[string]any](t, body)["role"] != "user" {
		t.Errorf("me after demotion = %d %s, want role user", status, body)
	}

	status, _ = do(t, app, http.MethodDelete, "/api/user/"+bobID, nil, "")
	if status != http.StatusNoContent {
		t.Fatalf("delete bob = %d, want 204", status)
	}

	status, body = do(t, app, http.MethodPost, "/api/role/", map[string]string{"name": "reviewer"}, bobToken)
	if status != http.StatusUnauthorized {
		t.Errorf("create role with deleted user's token = %d %s, want 401", status, body)
	}
}
