package api

import (
	"context"

	"sangkumfund/internal/apiclient"
	"sangkumfund/models"
)

type AnnouncementService struct {
	rq apiclient.Requester
}

func NewAnnouncementService(rq apiclient.Requester) *AnnouncementService {
	return &AnnouncementService{rq: rq}
}

func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	return apiclient.GetList[models.Announcement](ctx, s.rq, "/api/announcements")
}

func (s *AnnouncementService) Create(ctx context.Context, in models.AnnouncementInput) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.rq.Post(ctx, "/api/announcements", in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id models.ID, in models.AnnouncementInput) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.rq.Put(ctx, resourcePath("/api/announcements", id), in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id models.ID) error {
	return s.rq.Delete(ctx, resourcePath("/api/announcements", id), nil)
}
