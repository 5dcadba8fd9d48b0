package api

import (
	"context"

	"sangkumfund/internal/apiclient"
	"sangkumfund/models"
)

// BusinessCardService works on models.BusinessCard, whose JSON encoding
// folds Contact and Presentation into the backend's contactInfo field.
type BusinessCardService struct {
	rq apiclient.Requester
}

func NewBusinessCardService(rq apiclient.Requester) *BusinessCardService {
	return &BusinessCardService{rq: rq}
}

func (s *BusinessCardService) List(ctx context.Context) ([]models.BusinessCard, error) {
	return apiclient.GetList[models.BusinessCard](ctx, s.rq, "/api/business-cards")
}

func (s *BusinessCardService) Get(ctx context.Context, id models.ID) (*models.BusinessCard, error) {
	var c models.BusinessCard
	if err := s.rq.Get(ctx, resourcePath("/api/business-cards", id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BusinessCardService) Create(ctx context.Context, card models.BusinessCard) (*models.BusinessCard, error) {
	var c models.BusinessCard
	if err := s.rq.Post(ctx, "/api/business-cards", card, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BusinessCardService) Update(ctx context.Context, id models.ID, card models.BusinessCard) (*models.BusinessCard, error) {
	var c models.BusinessCard
	if err := s.rq.Put(ctx, resourcePath("/api/business-cards", id), card, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BusinessCardService) Delete(ctx context.Context, id models.ID) error {
	return s.rq.Delete(ctx, resourcePath("/api/business-cards", id), nil)
}
