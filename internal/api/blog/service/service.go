package blogService

import (
	"context"

	"BlogPlatform/internal/api/blog"
	blogsRepository "BlogPlatform/internal/api/blog/repository"
	"BlogPlatform/pkg/utils"

	"github.com/sirupsen/logrus"
)

type IBlogsService interface {
	CreateBlog(ctx context.Context, req blogs.CreateBlogRequest) (blogs.BlogResponse, error)
	GetBlogByID(ctx context.Context, id string) (blogs.BlogResponse, error)
	GetBlogsByUserID(ctx context.Context, userID string) ([]blogs.BlogResponse, error)
	GetAllBlogs(ctx context.Context) ([]blogs.BlogResponse, error)
	UpdateBlog(ctx context.Context, id string, req blogs.UpdateBlogRequest) (blogs.BlogResponse, error)
	DeleteBlog(ctx context.Context, id string) error
}

type blogsService struct {
	log       *logrus.Logger
	blogsRepo blogsRepository.Repository
	utils     utils.IUtils
}

func NewBlogsService(
	log *logrus.Logger,
	blogsRepo blogsRepository.Repository,
	utils utils.IUtils,
) IBlogsService {
	return &blogsService{
		log:       log,
		blogsRepo: blogsRepo,
		utils:     utils,
	}
}
