package api

import (
	"context"
	"fmt"

	"sangkumfund/internal/apiclient"
	"sangkumfund/models"
)

type NotificationService struct {
	rq apiclient.Requester
}

func NewNotificationService(rq apiclient.Requester) *NotificationService {
	return &NotificationService{rq: rq}
}

// List returns one page of the current user's notifications.
func (s *NotificationService) List(ctx context.Context, page, size int) (apiclient.Page[models.Notification], error) {
	return apiclient.GetPage[models.Notification](ctx, s.rq, fmt.Sprintf("/api/notifications?page=%d&size=%d", page, size))
}

func (s *NotificationService) MarkRead(ctx context.Context, id models.ID) error {
	return s.rq.Put(ctx, resourcePath("/api/notifications", id, "read"), nil, nil)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.rq.Put(ctx, "/api/notifications/read-all", nil, nil)
}

// Delete dismisses a notification.
func (s *NotificationService) Delete(ctx context.Context, id models.ID) error {
	return s.rq.Delete(ctx, resourcePath("/api/notifications", id), nil)
}
