package userRepository

import (
	"context"
	"database/sql"
	"errors"

	"BlogPlatform/database"
	"BlogPlatform/internal/api/user"
	"BlogPlatform/internal/entity"
	contextPkg "BlogPlatform/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type UserDB struct {
	ID           sql.NullString `db:"id"`
	Username     sql.NullString `db:"username"`
	PasswordHash sql.NullString `db:"password_hash"`
	RoleID       sql.NullString `db:"role_id"`
	RoleName     sql.NullString `db:"role_name"`
	TimeCreated  sql.NullTime   `db:"time_created"`
	TimeUpdated  sql.NullTime   `db:"time_updated"`
}

func (u UserDB) toEntity() entity.User {
	return entity.User{
		ID:           u.ID.String,
		Username:     u.Username.String,
		PasswordHash: u.PasswordHash.String,
		RoleID:       u.RoleID.String,
		RoleName:     u.RoleName.String,
		TimeCreated:  u.TimeCreated.Time.UTC(),
		TimeUpdated:  u.TimeUpdated.Time.UTC(),
	}
}

func userArgs(user entity.User) map[string]interface{} {
	return map[string]interface{}{
		"id":            user.ID,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"role_id":       user.RoleID,
		"time_created":  user.TimeCreated,
		"time_updated":  user.TimeUpdated,
	}
}

func (r *usersRepository) CreateUser(ctx context.Context, user entity.User) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateUser, userArgs(user))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateUser")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if database.IsUniqueViolation(err) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   user.Username,
			}).Warn("Username taken at insert")
			return users.ErrUsernameExists
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating user")
		return err
	}

	return nil
}

func (r *usersRepository) GetUserByID(ctx context.Context, id string) (entity.User, error) {
	return r.getOne(ctx, queryGetUserByID, map[string]interface{}{"id": id}, "GetUserByID")
}

func (r *usersRepository) GetUserByUsername(ctx context.Context, username string) (entity.User, error) {
	return r.getOne(ctx, queryGetUserByUsername, map[string]interface{}{"username": username}, "GetUserByUsername")
}

func (r *usersRepository) getOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var user UserDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return entity.User{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, users.ErrUserNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " database error")
		return entity.User{}, err
	}

	return user.toEntity(), nil
}

func (r *usersRepository) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []UserDB

	if err := r.q.SelectContext(ctx, &rows, queryGetAllUsers); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllUsers database error")
		return nil, err
	}

	result := make([]entity.User, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

func (r *usersRepository) UpdateUser(ctx context.Context, user entity.User) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryUpdateUser, userArgs(user))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpdateUser")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return users.ErrUsernameExists
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating user")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}

func (r *usersRepository) DeleteUser(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteUser, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for DeleteUser")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting user")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}
