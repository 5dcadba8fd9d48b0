package api

import (
	"context"
	"io"

	"sangkumfund/internal/apiclient"
	"sangkumfund/models"
)

type UserService struct {
	rq apiclient.Requester
}

func NewUserService(rq apiclient.Requester) *UserService {
	return &UserService{rq: rq}
}

func (s *UserService) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := s.rq.Get(ctx, "/api/users/profile", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in models.ProfileInput) (*models.User, error) {
	var u models.User
	if err := s.rq.Put(ctx, "/api/users/profile", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UploadAvatar sends the image as multipart field "file" and returns the
// updated profile.
func (s *UserService) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.User, error) {
	var u models.User
	if err := s.rq.Upload(ctx, "/api/users/profile/avatar", "file", filename, r, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
