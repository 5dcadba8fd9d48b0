package api

import (
	"context"

	"sangkumfund/internal/apiclient"
	"sangkumfund/models"
)

type ArticleService struct {
	rq apiclient.Requester
}

func NewArticleService(rq apiclient.Requester) *ArticleService {
	return &ArticleService{rq: rq}
}

func (s *ArticleService) List(ctx context.Context) ([]models.Article, error) {
	return apiclient.GetList[models.Article](ctx, s.rq, "/api/admin/articles")
}

func (s *ArticleService) Publish(ctx context.Context, id models.ID) error {
	return s.rq.Put(ctx, resourcePath("/api/admin/articles", id, "publish"), nil, nil)
}

func (s *ArticleService) Unpublish(ctx context.Context, id models.ID) error {
	return s.rq.Put(ctx, resourcePath("/api/admin/articles", id, "unpublish"), nil, nil)
}

func (s *ArticleService) Delete(ctx context.Context, id models.ID) error {
	return s.rq.Delete(ctx, resourcePath("/api/admin/articles", id), nil)
}
