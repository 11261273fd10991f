package blogRepository

import (
	"context"
	"database/sql"
	"errors"

	"BlogPlatform/database"
	"BlogPlatform/internal/api/blog"
	"BlogPlatform/internal/entity"
	contextPkg "BlogPlatform/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type BlogDB struct {
	ID          sql.NullString `db:"id"`
	UserID      sql.NullString `db:"user_id"`
	Title       sql.NullString `db:"title"`
	Content     sql.NullString `db:"content"`
	TimeCreated sql.NullTime   `db:"time_created"`
	TimeUpdated sql.NullTime   `db:"time_updated"`
}

func (b BlogDB) toEntity() entity.Blog {
	return entity.Blog{
		ID:          b.ID.String,
		UserID:      b.UserID.String,
		Title:       b.Title.String,
		Content:     b.Content.String,
		TimeCreated: b.TimeCreated.Time.UTC(),
		TimeUpdated: b.TimeUpdated.Time.UTC(),
	}
}

func (r *blogsRepository) CreateBlog(ctx context.Context, blog entity.Blog) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":           blog.ID,
		"user_id":      blog.UserID,
		"title":        blog.Title,
		"content":      blog.Content,
		"time_created": blog.TimeCreated,
		"time_updated": blog.TimeUpdated,
	}

	query, args, err := sqlx.Named(queryCreateBlog, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateBlog")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    blog.UserID,
			}).Warn("Blog owner does not exist")
			return blogs.ErrOwnerNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating blog")
		return err
	}

	return nil
}

func (r *blogsRepository) GetBlogByID(ctx context.Context, id string) (entity.Blog, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var blog BlogDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetBlogByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBlogByID named query preparation err")
		return entity.Blog{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&blog); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("GetBlogByID no rows found")
			return entity.Blog{}, blogs.ErrBlogNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBlogByID database error")
		return entity.Blog{}, err
	}

	return blog.toEntity(), nil
}

func (r *blogsRepository) GetBlogsByUserID(ctx context.Context, userID string) ([]entity.Blog, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetBlogsByUserID, map[string]interface{}{"user_id": userID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBlogsByUserID named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	return r.selectBlogs(ctx, query, args...)
}

func (r *blogsRepository) GetAllBlogs(ctx context.Context) ([]entity.Blog, error) {
	return r.selectBlogs(ctx, queryGetAllBlogs)
}

func (r *blogsRepository) selectBlogs(ctx context.Context, query string, args ...interface{}) ([]entity.Blog, error) {
	var rows []BlogDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to select blogs")
		return nil, err
	}

	result := make([]entity.Blog, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

func (r *blogsRepository) UpdateBlog(ctx context.Context, blog entity.Blog) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":           blog.ID,
		"title":        blog.Title,
		"content":      blog.Content,
		"time_updated": blog.TimeUpdated,
	}

	query, args, err := sqlx.Named(queryUpdateBlog, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpdateBlog")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating blog")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return blogs.ErrBlogNotFound
	}

	return nil
}

func (r *blogsRepository) DeleteBlog(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteBlog, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for DeleteBlog")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting blog")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return blogs.ErrBlogNotFound
	}

	return nil
}

func (r *blogsRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	query, args, err := sqlx.Named(queryCountUser, map[string]interface{}{"id": userID})
	if err != nil {
		return false, err
	}
	query = r.q.Rebind(query)

	var count int
	if err := r.q.GetContext(ctx, &count, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("UserExists database error")
		return false, err
	}

	return count > 0, nil
}
