package api

import (
	"context"

	"sangkumfund/internal/apiclient"
	"sangkumfund/models"
)

type SettingsService struct {
	rq apiclient.Requester
}

func NewSettingsService(rq apiclient.Requester) *SettingsService {
	return &SettingsService{rq: rq}
}

func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	var st models.Settings
	if err := s.rq.Get(ctx, "/api/settings", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *SettingsService) Update(ctx context.Context, in models.Settings) (*models.Settings, error) {
	var st models.Settings
	if err := s.rq.Put(ctx, "/api/settings", in, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Reset restores the backend defaults.
func (s *SettingsService) Reset(ctx context.Context) error {
	return s.rq.Delete(ctx, "/api/settings", nil)
}

func (s *SettingsService) ConnectTelegram(ctx context.Context, link models.TelegramLink) (*models.Settings, error) {
	var st models.Settings
	if err := s.rq.Put(ctx, "/api/settings/telegram", link, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *SettingsService) DisconnectTelegram(ctx context.Context) error {
	return s.rq.Delete(ctx, "/api/settings/telegram", nil)
}
