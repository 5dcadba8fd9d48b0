package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sangkumfund/internal/api"
	"sangkumfund/internal/apiclient"
	"sangkumfund/internal/status"
	"sangkumfund/models"
	"sangkumfund/monitoring"
)

const maxLoginBackOff = time.Minute

// SessionService keeps the console signed in to the backend. When a 401
// invalidates the token it logs in again with the configured operator
// credentials.
type SessionService struct {
	auth    *apiclient.AuthContext
	login   *api.AuthService
	creds   models.Credentials
	monitor *monitoring.Monitor

	backOff time.Duration
}

func NewSessionService(auth *apiclient.AuthContext, login *api.AuthService, creds models.Credentials, monitor *monitoring.Monitor) *SessionService {
	return &SessionService{
		auth:    auth,
		login:   login,
		creds:   creds,
		monitor: monitor,
		backOff: time.Second,
	}
}

// EnsureLogin logs in unless a token is already stored.
func (s *SessionService) EnsureLogin(ctx context.Context) error {
	if s.auth.Token(ctx) != "" {
		return nil
	}
	return s.connect(ctx)
}

func (s *SessionService) connect(ctx context.Context) error {
	if s.creds.Email == "" || s.creds.Password == "" {
		return status.ErrNotLoggedIn
	}
	if _, err := s.login.Login(ctx, s.creds); err != nil {
		return fmt.Errorf("session: login %s: %w", s.creds.Email, err)
	}
	slog.Info("console signed in", "email", s.creds.Email)
	return nil
}

// Watch waits for unauthenticated events until ctx is done and signs in
// again after each one, retrying with exponential backoff. Events raised
// before the last successful sign-in are ignored.
func (s *SessionService) Watch(ctx context.Context) {
	events := s.auth.Subscribe()
	defer s.auth.Unsubscribe(events)

	var signedInAt time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-events:
			if ev.At.Before(signedInAt) {
				slog.Debug("ignoring unauthenticated event from before sign-in", "reason", ev.Reason)
				continue
			}
			s.monitor.TrackUnauthenticated()
			slog.Warn("backend rejected console token", "reason", ev.Reason, "redirect", ev.Redirect)
		}

		backOff := s.backOff

	Retry:
		for {
			err := s.connect(ctx)
			switch {
			case err == nil:
				signedInAt = time.Now()
				break Retry

			case errors.Is(err, status.ErrNotLoggedIn):
				slog.Warn("no operator credentials configured, console stays signed out")
				break Retry

			default:
				slog.Error("console sign-in failed", "error", err, "retry_in", backOff)
				select {
				case <-ctx.Done():
					return

				case <-time.After(backOff):
					backOff = min(backOff*2, maxLoginBackOff)
				}
			}
		}
	}
}
