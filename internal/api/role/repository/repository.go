package roleRepository

import (
	"context"

	"BlogPlatform/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Roles:    NewRolesRepository(sqlExecutor, r.log),
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

// RolesRepository is also used by the users domain, bound to its own
// executor, so role lookups join the caller's transaction.
type RolesRepository interface {
	CreateRole(ctx context.Context, role entity.UserRole) error
	GetRoleByID(ctx context.Context, id string) (entity.UserRole, error)
	GetRoleByName(ctx context.Context, name string) (entity.UserRole, error)
	GetAllRoles(ctx context.Context) ([]entity.UserRole, error)
	UpdateRole(ctx context.Context, role entity.UserRole) error
	DeleteRole(ctx context.Context, id string) error
	CountUsersWithRole(ctx context.Context, id string) (int, error)
}

type Client struct {
	Roles RolesRepository

	Commit   func() error
	Rollback func() error
}

func NewRolesRepository(q SQLExecutor, log *logrus.Logger) RolesRepository {
	return &rolesRepository{q: q, log: log}
}

type rolesRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
