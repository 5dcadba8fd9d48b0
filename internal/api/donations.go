package api

import (
	"context"
	"fmt"

	"sangkumfund/internal/apiclient"
	"sangkumfund/internal/status"
	"sangkumfund/models"
)

type DonationService struct {
	rq apiclient.Requester
}

func NewDonationService(rq apiclient.Requester) *DonationService {
	return &DonationService{rq: rq}
}

// Create refuses non-positive amounts without calling the backend.
func (s *DonationService) Create(ctx context.Context, in models.DonationInput) (*models.Donation, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: donation amount must be positive", status.ErrValidation)
	}

	var d models.Donation
	if err := s.rq.Post(ctx, "/api/donations", in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DonationService) ListMine(ctx context.Context) ([]models.Donation, error) {
	return apiclient.GetList[models.Donation](ctx, s.rq, "/api/donations/my")
}

func (s *DonationService) ListForEvent(ctx context.Context, eventID models.ID) ([]models.Donation, error) {
	return apiclient.GetList[models.Donation](ctx, s.rq, resourcePath("/api/donations/event", eventID))
}
