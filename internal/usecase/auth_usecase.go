package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/ports"
	"github.com/farmdesk/farmdesk/pkg/apperror"
)

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the user it belongs to
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// AuthUseCase handles authentication
type AuthUseCase struct {
	userRepo        ports.UserRepository
	tokenService    ports.TokenService
	passwordService ports.PasswordService
	tokenTTL        time.Duration
}

// NewAuthUseCase creates a new auth use case
func NewAuthUseCase(
	userRepo ports.UserRepository,
	tokenService ports.TokenService,
	passwordService ports.PasswordService,
	tokenTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:        userRepo,
		tokenService:    tokenService,
		passwordService: passwordService,
		tokenTTL:        tokenTTL,
	}
}

// Login verifies credentials and issues an access token
func (uc *AuthUseCase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperror.NewBadRequest("email and password are required")
	}

	user, err := uc.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	if err := uc.passwordService.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, err := uc.tokenService.GenerateAccessToken(ports.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	}, uc.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{AccessToken: token, User: user}, nil
}

// Me returns the user behind the authenticated request
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, apperror.NewUnauthorized("not authenticated")
	}

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
