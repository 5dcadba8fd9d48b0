package api

import (
	"context"
	"fmt"

	"sangkumfund/internal/apiclient"
	"sangkumfund/models"
)

type AuthService struct {
	rq   apiclient.Requester
	auth *apiclient.AuthContext
}

func NewAuthService(rq apiclient.Requester, auth *apiclient.AuthContext) *AuthService {
	return &AuthService{rq: rq, auth: auth}
}

// Login exchanges credentials for a bearer token and stores it.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var reply models.AuthResult
	if err := s.rq.Post(ctx, "/api/auth/login", creds, &reply); err != nil {
		return nil, err
	}
	if err := s.store(ctx, reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *AuthService) Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error) {
	var reply models.AuthResult
	if err := s.rq.Post(ctx, "/api/auth/register", reg, &reply); err != nil {
		return nil, err
	}
	if err := s.store(ctx, reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *AuthService) store(ctx context.Context, reply models.AuthResult) error {
	token := reply.BearerToken()
	if token == "" || s.auth == nil {
		return nil
	}
	if err := s.auth.SetToken(ctx, token); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}
