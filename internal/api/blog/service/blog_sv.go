package blogService

import (
	"context"
	"errors"

	"BlogPlatform/internal/api/blog"
	"BlogPlatform/internal/entity"
	contextPkg "BlogPlatform/pkg/context"

	"github.com/sirupsen/logrus"
)

func toResponse(blog entity.Blog) blogs.BlogResponse {
	return blogs.BlogResponse{
		ID:          blog.ID,
		UserID:      blog.UserID,
		Title:       blog.Title,
		Content:     blog.Content,
		TimeCreated: blog.TimeCreated,
		TimeUpdated: blog.TimeUpdated,
	}
}

func toResponses(list []entity.Blog) []blogs.BlogResponse {
	result := make([]blogs.BlogResponse, 0, len(list))
	for _, blog := range list {
		result = append(result, toResponse(blog))
	}
	return result
}

func (s *blogsService) CreateBlog(ctx context.Context, req blogs.CreateBlogRequest) (blogs.BlogResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.blogsRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.BlogResponse{}, err
	}
	defer repo.Rollback()

	exists, err := repo.Blogs.UserExists(ctx, req.UserID)
	if err != nil {
		return blogs.BlogResponse{}, err
	}
	if !exists {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    req.UserID,
		}).Warn("Blog owner not found")
		return blogs.BlogResponse{}, blogs.ErrOwnerNotFound
	}

	blogID, err := s.utils.NewUUID()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate blog id")
		return blogs.BlogResponse{}, err
	}

	now := s.utils.Now()

	blog := entity.Blog{
		ID:          blogID,
		UserID:      req.UserID,
		Title:       req.Title,
		Content:     req.Content,
		TimeCreated: now,
		TimeUpdated: now,
	}

	if err := repo.Blogs.CreateBlog(ctx, blog); err != nil {
		return blogs.BlogResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return blogs.BlogResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"blog_id":    blogID,
		"user_id":    req.UserID,
	}).Info("Blog created")

	return toResponse(blog), nil
}

func (s *blogsService) GetBlogByID(ctx context.Context, id string) (blogs.BlogResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.BlogResponse{}, err
	}

	blog, err := repo.Blogs.GetBlogByID(ctx, id)
	if err != nil {
		if !errors.Is(err, blogs.ErrBlogNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
				"error":      err.Error(),
			}).Error("Failed to get blog")
		}
		return blogs.BlogResponse{}, err
	}

	return toResponse(blog), nil
}

func (s *blogsService) GetBlogsByUserID(ctx context.Context, userID string) ([]blogs.BlogResponse, error) {
	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	list, err := repo.Blogs.GetBlogsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toResponses(list), nil
}

func (s *blogsService) GetAllBlogs(ctx context.Context) ([]blogs.BlogResponse, error) {
	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	list, err := repo.Blogs.GetAllBlogs(ctx)
	if err != nil {
		return nil, err
	}

	return toResponses(list), nil
}

func (s *blogsService) UpdateBlog(ctx context.Context, id string, req blogs.UpdateBlogRequest) (blogs.BlogResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.blogsRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.BlogResponse{}, err
	}
	defer repo.Rollback()

	blog, err := repo.Blogs.GetBlogByID(ctx, id)
	if err != nil {
		return blogs.BlogResponse{}, err
	}

	if req.Title != "" {
		blog.Title = req.Title
	}
	if req.Content != "" {
		blog.Content = req.Content
	}
	blog.TimeUpdated = s.utils.Now()

	if err := repo.Blogs.UpdateBlog(ctx, blog); err != nil {
		return blogs.BlogResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return blogs.BlogResponse{}, err
	}

	return toResponse(blog), nil
}

func (s *blogsService) DeleteBlog(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.blogsRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}
	defer repo.Rollback()

	if err := repo.Blogs.DeleteBlog(ctx, id); err != nil {
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"blog_id":    id,
	}).Info("Blog deleted")

	return nil
}
