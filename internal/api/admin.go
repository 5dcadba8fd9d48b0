package api

import (
	"context"
	"strings"

	"sangkumfund/internal/apiclient"
	"sangkumfund/internal/status"
	"sangkumfund/models"
)

// AdminService covers the moderation endpoints under /api/admin.
type AdminService struct {
	rq apiclient.Requester
}

func NewAdminService(rq apiclient.Requester) *AdminService {
	return &AdminService{rq: rq}
}

func (s *AdminService) Events(ctx context.Context) ([]models.Event, error) {
	return apiclient.GetList[models.Event](ctx, s.rq, "/api/admin/events")
}

func (s *AdminService) ApproveEvent(ctx context.Context, id models.ID) error {
	return s.rq.Put(ctx, resourcePath("/api/admin/events", id, "approve"), nil, nil)
}

// RejectEvent requires a reason; a blank one is refused locally.
func (s *AdminService) RejectEvent(ctx context.Context, id models.ID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return status.ErrMissingReason
	}
	return s.rq.Put(ctx, resourcePath("/api/admin/events", id, "reject"), map[string]string{"reason": reason}, nil)
}

func (s *AdminService) DeleteEvent(ctx context.Context, id models.ID) error {
	return s.rq.Delete(ctx, resourcePath("/api/admin/events", id), nil)
}

func (s *AdminService) Donations(ctx context.Context) ([]models.Donation, error) {
	return apiclient.GetList[models.Donation](ctx, s.rq, "/api/admin/donations")
}

func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	return apiclient.GetList[models.User](ctx, s.rq, "/api/admin/users")
}

// SetUserActive drives the toggle-status endpoint to an explicit state.
func (s *AdminService) SetUserActive(ctx context.Context, id models.ID, active bool) error {
	return s.rq.Put(ctx, resourcePath("/api/admin/users", id, "toggle-status"), map[string]bool{"isActive": active}, nil)
}

func (s *AdminService) BlockUser(ctx context.Context, id models.ID) error {
	return s.rq.Put(ctx, resourcePath("/api/admin/users", id, "block"), nil, nil)
}

func (s *AdminService) UnblockUser(ctx context.Context, id models.ID) error {
	return s.rq.Put(ctx, resourcePath("/api/admin/users", id, "unblock"), nil, nil)
}

func (s *AdminService) DeleteUser(ctx context.Context, id models.ID) error {
	return s.rq.Delete(ctx, resourcePath("/api/admin/users", id), nil)
}

func (s *AdminService) Charities(ctx context.Context) ([]models.Charity, error) {
	return apiclient.GetList[models.Charity](ctx, s.rq, "/api/admin/charities")
}

func (s *AdminService) CreateCharity(ctx context.Context, c models.Charity) (*models.Charity, error) {
	var out models.Charity
	if err := s.rq.Post(ctx, "/api/admin/charities", c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) UpdateCharity(ctx context.Context, id models.ID, c models.Charity) (*models.Charity, error) {
	var out models.Charity
	if err := s.rq.Put(ctx, resourcePath("/api/admin/charities", id), c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) DeleteCharity(ctx context.Context, id models.ID) error {
	return s.rq.Delete(ctx, resourcePath("/api/admin/charities", id), nil)
}

// DashboardStats may come back partial or empty; callers fill the gaps.
func (s *AdminService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var st models.DashboardStats
	if err := s.rq.Get(ctx, "/api/admin/stats/dashboard", &st); err != nil {
		return nil, err
	}
	return &st, nil
}
