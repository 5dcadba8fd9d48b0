package dashboard

import (
	"context"

	"sangkumfund/internal/api"
	"sangkumfund/models"
)

// Reader fetches the collections the dashboard is built from. Each call is
// independent; the aggregator guards them one by one.
type Reader interface {
	Events(ctx context.Context) ([]models.Event, error)
	Donations(ctx context.Context) ([]models.Donation, error)
	Users(ctx context.Context) ([]models.User, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
	Articles(ctx context.Context) ([]models.Article, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// APIReader reads the dashboard sources from the backend admin endpoints.
type APIReader struct {
	admin         *api.AdminService
	notifications *api.NotificationService
	articles      *api.ArticleService
	pageSize      int
}

func NewAPIReader(admin *api.AdminService, notifications *api.NotificationService, articles *api.ArticleService, pageSize int) *APIReader {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &APIReader{
		admin:         admin,
		notifications: notifications,
		articles:      articles,
		pageSize:      pageSize,
	}
}

func (r *APIReader) Events(ctx context.Context) ([]models.Event, error) {
	return r.admin.Events(ctx)
}

func (r *APIReader) Donations(ctx context.Context) ([]models.Donation, error) {
	return r.admin.Donations(ctx)
}

func (r *APIReader) Users(ctx context.Context) ([]models.User, error) {
	return r.admin.Users(ctx)
}

// Notifications returns the first page only.
func (r *APIReader) Notifications(ctx context.Context) ([]models.Notification, error) {
	page, err := r.notifications.List(ctx, 0, r.pageSize)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *APIReader) Articles(ctx context.Context) ([]models.Article, error) {
	return r.articles.List(ctx)
}

func (r *APIReader) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return r.admin.DashboardStats(ctx)
}
