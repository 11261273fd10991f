package roleRepository

import (
	"context"
	"database/sql"
	"errors"

	"BlogPlatform/database"
	"BlogPlatform/internal/api/role"
	"BlogPlatform/internal/entity"
	contextPkg "BlogPlatform/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type RoleDB struct {
	ID   sql.NullString `db:"id"`
	Name sql.NullString `db:"name"`
}

func (r RoleDB) toEntity() entity.UserRole {
	return entity.UserRole{
		ID:   r.ID.String,
		Name: r.Name.String,
	}
}

func (r *rolesRepository) CreateRole(ctx context.Context, role entity.UserRole) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":   role.ID,
		"name": role.Name,
	}

	query, args, err := sqlx.Named(queryCreateRole, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRole")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return roles.ErrRoleNameExists
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating role")
		return err
	}

	return nil
}

func (r *rolesRepository) GetRoleByID(ctx context.Context, id string) (entity.UserRole, error) {
	return r.getOne(ctx, queryGetRoleByID, map[string]interface{}{"id": id}, "GetRoleByID")
}

func (r *rolesRepository) GetRoleByName(ctx context.Context, name string) (entity.UserRole, error) {
	return r.getOne(ctx, queryGetRoleByName, map[string]interface{}{"name": name}, "GetRoleByName")
}

func (r *rolesRepository) getOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) (entity.UserRole, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var role RoleDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return entity.UserRole{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.UserRole{}, roles.ErrRoleNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " database error")
		return entity.UserRole{}, err
	}

	return role.toEntity(), nil
}

func (r *rolesRepository) GetAllRoles(ctx context.Context) ([]entity.UserRole, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []RoleDB

	if err := r.q.SelectContext(ctx, &rows, queryGetAllRoles); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllRoles database error")
		return nil, err
	}

	result := make([]entity.UserRole, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

func (r *rolesRepository) UpdateRole(ctx context.Context, role entity.UserRole) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":   role.ID,
		"name": role.Name,
	}

	query, args, err := sqlx.Named(queryUpdateRole, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpdateRole")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return roles.ErrRoleNameExists
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating role")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return roles.ErrRoleNotFound
	}

	return nil
}

func (r *rolesRepository) DeleteRole(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteRole, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for DeleteRole")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return roles.ErrRoleInUse
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting role")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return roles.ErrRoleNotFound
	}

	return nil
}

func (r *rolesRepository) CountUsersWithRole(ctx context.Context, id string) (int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCountUsersWithRole, map[string]interface{}{"role_id": id})
	if err != nil {
		return 0, err
	}
	query = r.q.Rebind(query)

	var count int
	if err := r.q.GetContext(ctx, &count, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountUsersWithRole database error")
		return 0, err
	}

	return count, nil
}
