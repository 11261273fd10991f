package entity

import "time"

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	RoleID       string    `db:"role_id"`
	RoleName     string    `db:"role_name"`
	TimeCreated  time.Time `db:"time_created"`
	TimeUpdated  time.Time `db:"time_updated"`
}

// UserLoginData is what the token middleware stores in the fiber locals.
type UserLoginData struct {
	ID          string
	Username    string
	Role        string
	Permissions []string
	TokenID     string
	ExpiresAt   time.Time
}
