package userService

import (
	"context"
	"errors"
	"testing"
	"time"

	"BlogPlatform/internal/api/role"
	"BlogPlatform/internal/api/user"
	userRepository "BlogPlatform/internal/api/user/repository"
	"BlogPlatform/internal/entity"
	"BlogPlatform/internal/testutil"
	"BlogPlatform/pkg/bcrypt"
	jwtPkg "BlogPlatform/pkg/jwt"
	"BlogPlatform/pkg/redis"
	"BlogPlatform/pkg/response"
	"BlogPlatform/pkg/utils"

	"github.com/jmoiron/sqlx"
	gobcrypt "golang.org/x/crypto/bcrypt"
)

const testSecret = "users-secret"

type fakeTokenStore struct {
	revoked map[string]time.Duration
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, tokenID string, ttl time.Duration) error {
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeTokenStore) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.revoked[tokenID]
	return ok, nil
}

func (f *fakeTokenStore) Ping(context.Context) error { return nil }

func (f *fakeTokenStore) Close() error { return nil }

func newService(t *testing.T, store redis.IRedis) (IUsersService, *sqlx.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	log := testutil.Logger()

	s := NewUsersService(
		log,
		userRepository.New(db, log),
		bcrypt.NewWithCost(gobcrypt.MinCost),
		utils.New(),
		store,
		TokenConfig{AccessTokenSecret: testSecret, AccessTokenTTL: time.Hour},
	)
	return s, db
}

func TestCreateUser(t *testing.T) {
	s, db := newService(t, nil)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, users.CreateUserRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.Username != "alice" || created.Role != entity.RoleUser || created.ID == "" {
		t.Errorf("CreateUser() = %+v", created)
	}
	if !created.TimeCreated.Equal(created.TimeUpdated) {
		t.Errorf("timestamps differ on create: %v / %v", created.TimeCreated, created.TimeUpdated)
	}

	var hash string
	if err := db.Get(&hash, db.Rebind("SELECT password_hash FROM users WHERE id = ?"), created.ID); err != nil {
		t.Fatalf("select hash: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("password stored in plaintext")
	}
	if err := gobcrypt.CompareHashAndPassword([]byte(hash), []byte("secret123")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	_, err = s.CreateUser(ctx, users.CreateUserRequest{Username: "alice", Password: "other"})
	if !errors.Is(err, users.ErrUsernameExists) || !response.IsDuplicate(err) {
		t.Errorf("CreateUser(duplicate) error = %v, want ErrUsernameExists", err)
	}
}

func TestGetUsers(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()

	all, err := s.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("GetAllUsers() error = %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("GetAllUsers() on empty store = %#v, want empty slice", all)
	}

	alice, _ := s.CreateUser(ctx, users.CreateUserRequest{Username: "alice", Password: "pw"})
	if _, err := s.CreateUser(ctx, users.CreateUserRequest{Username: "bob", Password: "pw"}); err != nil {
		t.Fatalf("CreateUser(bob) error = %v", err)
	}

	got, err := s.GetUserByID(ctx, alice.ID)
	if err != nil || got.Username != "alice" {
		t.Errorf("GetUserByID() = %+v, %v", got, err)
	}

	got, err = s.GetUserByUsername(ctx, "bob")
	if err != nil || got.Role != entity.RoleUser {
		t.Errorf("GetUserByUsername() = %+v, %v", got, err)
	}

	if _, err := s.GetUserByID(ctx, "nope"); !errors.Is(err, users.ErrUserNotFound) {
		t.Errorf("GetUserByID(unknown) error = %v, want ErrUserNotFound", err)
	}
	if _, err := s.GetUserByUsername(ctx, "nope"); !response.IsMissing(err) {
		t.Errorf("GetUserByUsername(unknown) error = %v, want Missing", err)
	}

	all, err = s.GetAllUsers(ctx)
	if err != nil || len(all) != 2 {
		t.Errorf("GetAllUsers() = %d users, %v; want 2", len(all), err)
	}
}

func TestUpdateUser(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()

	alice, _ := s.CreateUser(ctx, users.CreateUserRequest{Username: "alice", Password: "pw"})
	if _, err := s.CreateUser(ctx, users.CreateUserRequest{Username: "bob", Password: "pw"}); err != nil {
		t.Fatalf("CreateUser(bob) error = %v", err)
	}

	tests := []struct {
		name    string
		id      string
		req     users.UpdateUserRequest
		want    string
		wantErr error
	}{
		{"same username", alice.ID, users.UpdateUserRequest{Username: "alice"}, "alice", nil},
		{"taken username", alice.ID, users.UpdateUserRequest{Username: "bob"}, "", users.ErrUsernameExists},
		{"rename", alice.ID, users.UpdateUserRequest{Username: "alicia"}, "alicia", nil},
		{"password only", alice.ID, users.UpdateUserRequest{Password: "new-password"}, "alicia", nil},
		{"unknown id", "nope", users.UpdateUserRequest{Username: "ghost"}, "", users.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.UpdateUser(ctx, tt.id, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateUser() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.Username != tt.want {
				t.Errorf("UpdateUser() username = %q, want %q", got.Username, tt.want)
			}
		})
	}

	updated, err := s.GetUserByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if !updated.TimeUpdated.After(alice.TimeUpdated) && !updated.TimeUpdated.Equal(alice.TimeUpdated) {
		t.Errorf("time_updated went backwards: %v < %v", updated.TimeUpdated, alice.TimeUpdated)
	}
	if !updated.TimeCreated.Equal(alice.TimeCreated) {
		t.Errorf("time_created changed: %v != %v", updated.TimeCreated, alice.TimeCreated)
	}

	if _, err := s.Login(ctx, users.LoginRequest{Username: "alicia", Password: "new-password"}); err != nil {
		t.Errorf("Login() with updated password error = %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()

	if err := s.DeleteUser(ctx, "nope"); !errors.Is(err, users.ErrUserNotFound) {
		t.Errorf("DeleteUser(unknown) error = %v, want ErrUserNotFound", err)
	}

	alice, _ := s.CreateUser(ctx, users.CreateUserRequest{Username: "alice", Password: "pw"})
	if err := s.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := s.GetUserByID(ctx, alice.ID); !errors.Is(err, users.ErrUserNotFound) {
		t.Errorf("GetUserByID(deleted) error = %v, want ErrUserNotFound", err)
	}
}

func TestAssignRole(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()

	alice, _ := s.CreateUser(ctx, users.CreateUserRequest{Username: "alice", Password: "pw"})

	got, err := s.AssignRole(ctx, alice.ID, users.AssignRoleRequest{Role: entity.RoleModerator})
	if err != nil {
		t.Fatalf("AssignRole() error = %v", err)
	}
	if got.Role != entity.RoleModerator || got.RoleID == alice.RoleID {
		t.Errorf("AssignRole() = %+v", got)
	}

	if _, err := s.AssignRole(ctx, alice.ID, users.AssignRoleRequest{Role: "ghost"}); !errors.Is(err, roles.ErrRoleNotFound) {
		t.Errorf("AssignRole(unknown role) error = %v, want ErrRoleNotFound", err)
	}
	if _, err := s.AssignRole(ctx, "nope", users.AssignRoleRequest{Role: entity.RoleAdmin}); !errors.Is(err, users.ErrUserNotFound) {
		t.Errorf("AssignRole(unknown user) error = %v, want ErrUserNotFound", err)
	}
}

func TestLoginMeLogout(t *testing.T) {
	store := &fakeTokenStore{revoked: map[string]time.Duration{}}
	s, _ := newService(t, store)
	ctx := context.Background()

	alice, _ := s.CreateUser(ctx, users.CreateUserRequest{Username: "alice", Password: "secret123"})

	if _, err := s.Login(ctx, users.LoginRequest{Username: "alice", Password: "wrong"}); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Errorf("Login(wrong password) error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Login(ctx, users.LoginRequest{Username: "nobody", Password: "x"}); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Errorf("Login(unknown user) error = %v, want ErrInvalidCredentials", err)
	}

	login, err := s.Login(ctx, users.LoginRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.TokenType != "Bearer" || login.ExpiresIn <= 0 {
		t.Errorf("Login() = %+v", login)
	}

	data, err := jwtPkg.Verify(testSecret, login.AccessToken)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if data.ID != alice.ID || data.Role != entity.RoleUser {
		t.Errorf("token claims = %+v", data)
	}

	me, err := s.Me(ctx, data.ID)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if me.Username != "alice" || len(me.Permissions) != 3 {
		t.Errorf("Me() = %+v", me)
	}

	if err := s.Logout(ctx, data); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if ttl, ok := store.revoked[data.TokenID]; !ok || ttl <= 0 {
		t.Errorf("token %q not revoked (ttl %v)", data.TokenID, ttl)
	}
}

func TestLogoutWithoutStore(t *testing.T) {
	s, _ := newService(t, nil)

	err := s.Logout(context.Background(), entity.UserLoginData{TokenID: "x", ExpiresAt: time.Now().Add(time.Hour)})
	if !errors.Is(err, users.ErrTokenStoreUnavailable) {
		t.Errorf("Logout() error = %v, want ErrTokenStoreUnavailable", err)
	}
}

func TestSeedAdmin(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()

	if err := s.SeedAdmin(ctx, "admin"); err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if err := s.SeedAdmin(ctx, "admin"); err != nil {
		t.Fatalf("SeedAdmin() second run error = %v", err)
	}

	admin, err := s.GetUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetUserByUsername(admin) error = %v", err)
	}
	if admin.Role != entity.RoleAdmin {
		t.Errorf("admin role = %q, want admin", admin.Role)
	}

	all, _ := s.GetAllUsers(ctx)
	if len(all) != 1 {
		t.Errorf("users after seeding twice = %d, want 1", len(all))
	}
}

func TestGetAllUsersNewestFirst(t *testing.T) {
	db := testutil.OpenTestDB(t)
	log := testutil.Logger()
	current := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewUsersService(
		log,
		userRepository.New(db, log),
		bcrypt.NewWithCost(gobcrypt.MinCost),
		utils.NewWithClock(func() time.Time { return current }),
		nil,
		TokenConfig{AccessTokenSecret: testSecret, AccessTokenTTL: time.Hour},
	)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		if _, err := s.CreateUser(ctx, users.CreateUserRequest{Username: name, Password: "pw"}); err != nil {
			t.Fatalf("CreateUser(%s) error = %v", name, err)
		}
		current = current.Add(time.Minute)
	}

	all, err := s.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("GetAllUsers() error = %v", err)
	}
	var got []string
	for _, u := range all {
		got = append(got, u.Username)
	}
	want := []string{"carol", "bob", "alice"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("GetAllUsers() order = %v, want %v", got, want)
	}
}

func TestRoleResolverReadsCurrentRole(t *testing.T) {
	s, db := newService(t, nil)
	ctx := context.Background()
	resolver := NewRoleResolver(userRepository.New(db, testutil.Logger()))

	bob, err := s.CreateUser(ctx, users.CreateUserRequest{Username: "bob", Password: "pw"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if role, err := resolver.CurrentRole(ctx, bob.ID); err != nil || role != entity.RoleUser {
		t.Fatalf("CurrentRole() = %q, %v; want user", role, err)
	}

	if _, err := s.AssignRole(ctx, bob.ID, users.AssignRoleRequest{Role: entity.RoleAdmin}); err != nil {
		t.Fatalf("AssignRole() error = %v", err)
	}
	if role, err := resolver.CurrentRole(ctx, bob.ID); err != nil || role != entity.RoleAdmin {
		t.Errorf("CurrentRole(after promote) = %q, %v; want admin", role, err)
	}

	if err := s.DeleteUser(ctx, bob.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := resolver.CurrentRole(ctx, bob.ID); !response.IsMissing(err) {
		t.Errorf("CurrentRole(deleted) error = %v, want Missing", err)
	}
}
