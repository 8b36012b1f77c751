package service

import (
	"context"
	"log"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/repository"
)

type BlogService struct {
	marketing repository.MarketingStore
}

func NewBlogService(marketing repository.MarketingStore) *BlogService {
	return &BlogService{marketing: marketing}
}

func (s *BlogService) ListPosts(ctx context.Context, page, perPage int) ([]*domain.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}
	return s.marketing.ListPublishedPosts(ctx, page, perPage)
}

// GetPost returns the published post and bumps its view counter. The
// counter is best effort.
func (s *BlogService) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.marketing.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.marketing.IncrementPostViews(ctx, post.ID); err != nil {
		log.Printf("increment views for post %d: %v", post.ID, err)
	} else {
		post.Views++
	}
	return post, nil
}
