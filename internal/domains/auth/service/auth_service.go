package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bookcatalog-backend/internal/domains/auth/model"
	"bookcatalog-backend/internal/domains/auth/repository"
	"bookcatalog-backend/pkg/jwt"
	"bookcatalog-backend/pkg/logger"
)

const bcryptCost = 12

type authService struct {
	users      repository.UserRepositoryInterface
	tokens     repository.TokenRepositoryInterface
	jwtManager *jwt.Manager
}

func NewAuthService(
	users repository.UserRepositoryInterface,
	tokens repository.TokenRepositoryInterface,
	jwtManager *jwt.Manager,
) ServiceInterface {
	return &authService{
		users:      users,
		tokens:     tokens,
		jwtManager: jwtManager,
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrUsernameTaken
	}
	taken, err = s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		dateOfBirth = &dob
	}

	user, err := s.users.Create(ctx, &model.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   string(passwordHash),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		ProfilePicture: req.ProfilePicture,
		Address:        req.Address,
		Bio:            req.Bio,
		DateOfBirth:    dateOfBirth,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user.ToResponse(), nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Email, user.IsStaff)
	if err != nil {
		return nil, err
	}
	refresh, claims, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Username, user.Email, user.IsStaff)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Save(ctx, &model.RefreshToken{
		JTI:       claims.ID,
		UserID:    user.ID,
		Token:     refresh,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}); err != nil {
		return nil, err
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		logger.Error("update last login failed", err)
	}

	return &model.LoginResponse{
		Refresh: refresh,
		Access:  access,
		User: model.LoginUserInfo{
			Username:    user.Username,
			Email:       user.Email,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			PhoneNumber: user.PhoneNumber,
		},
	}, nil
}

// Refresh exchanges a valid, non-revoked refresh token for a new
// access token. The refresh token itself is not rotated.
func (s *authService) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.RefreshResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.jwtManager.ValidateRefreshToken(req.Refresh)
	if err != nil {
		return nil, model.ErrBadToken
	}
	blacklisted, err := s.tokens.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, model.ErrBadToken
	}

	access, err := s.jwtManager.GenerateAccessToken(claims.UserID, claims.Username, claims.Email, claims.IsStaff)
	if err != nil {
		return nil, err
	}
	return &model.RefreshResponse{Access: access}, nil
}

// Logout revokes a refresh token. Revoking an already revoked or
// expired token succeeds; only a token that fails signature or type
// checks is reported as bad.
func (s *authService) Logout(ctx context.Context, req *model.LogoutRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	claims, err := s.jwtManager.ParseRefreshToken(req.Refresh)
	if err != nil {
		return model.ErrBadToken
	}

	token := &model.RefreshToken{
		JTI:    claims.ID,
		UserID: claims.UserID,
		Token:  req.Refresh,
	}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}
	return s.tokens.Blacklist(ctx, token)
}

func (s *authService) GetProfile(ctx context.Context, userID int64) (*model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else {
			dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				return nil, err
			}
			user.DateOfBirth = &dob
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, req *model.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return model.ErrWrongOldPassword
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(passwordHash))
}
