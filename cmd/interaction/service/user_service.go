package service

import (
	"context"
	"strings"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/pkg/errno"
)

type UserService struct {
	ctx  context.Context
	core *Core
}

func NewUserService(ctx context.Context, core *Core) *UserService {
	return &UserService{ctx: ctx, core: core}
}

// ChannelProfile 按用户名查看频道, 匿名访问时 isSubscribed 为 false
func (s *UserService) ChannelProfile(ctx context.Context, username string) (*UserView, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errno.RequestErr.WithMessage("Username is required")
	}
	u, ok, err := s.core.Store.Users.FindOne(ctx, db.Filter{"user_name": username})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errno.NotFoundErr.WithMessage("User not found")
	}
	return s.core.projector().Channel(ctx, u)
}
