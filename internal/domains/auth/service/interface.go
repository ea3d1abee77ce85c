package service

import (
	"context"

	"bookcatalog-backend/internal/domains/auth/model"
)

type ServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Refresh(ctx context.Context, req *model.RefreshRequest) (*model.RefreshResponse, error)
	Logout(ctx context.Context, req *model.LogoutRequest) error
	GetProfile(ctx context.Context, userID int64) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.UserResponse, error)
	ChangePassword(ctx context.Context, userID int64, req *model.ChangePasswordRequest) error
}
