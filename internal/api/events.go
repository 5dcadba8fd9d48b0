package api

import (
	"context"
	"strings"

	"sangkumfund/internal/apiclient"
	"sangkumfund/internal/status"
	"sangkumfund/models"
)

type EventService struct {
	rq apiclient.Requester
}

func NewEventService(rq apiclient.Requester) *EventService {
	return &EventService{rq: rq}
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	return apiclient.GetList[models.Event](ctx, s.rq, "/api/events")
}

func (s *EventService) Get(ctx context.Context, id models.ID) (*models.Event, error) {
	var ev models.Event
	if err := s.rq.Get(ctx, resourcePath("/api/events", id), &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *EventService) Create(ctx context.Context, in models.EventInput) (*models.Event, error) {
	var ev models.Event
	if err := s.rq.Post(ctx, "/api/events", in, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *EventService) Update(ctx context.Context, id models.ID, in models.EventInput) (*models.Event, error) {
	var ev models.Event
	if err := s.rq.Put(ctx, resourcePath("/api/events", id), in, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *EventService) Delete(ctx context.Context, id models.ID) error {
	return s.rq.Delete(ctx, resourcePath("/api/events", id), nil)
}

// Join registers the current user as a participant.
func (s *EventService) Join(ctx context.Context, id models.ID) error {
	return s.rq.Post(ctx, resourcePath("/api/events", id, "join"), nil, nil)
}

func (s *EventService) Comments(ctx context.Context, id models.ID) ([]models.Comment, error) {
	return apiclient.GetList[models.Comment](ctx, s.rq, resourcePath("/api/events", id, "comments"))
}

// AddComment refuses blank comments without calling the backend.
func (s *EventService) AddComment(ctx context.Context, id models.ID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, status.ErrEmptyComment
	}

	var c models.Comment
	body := map[string]string{"content": content}
	if err := s.rq.Post(ctx, resourcePath("/api/events", id, "comments"), body, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
