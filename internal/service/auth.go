package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/logger"
	"paraplus-backend/internal/repository"
	"paraplus-backend/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// GoogleTokenVerifier validates a Google ID token and returns the
// profile claims we care about. Wrapped in an interface so tests do not
// reach out to Google's certificate endpoint.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleProfile, error)
}

type GoogleProfile struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	Picture   string
}

type googleVerifier struct {
	clientID string
}

func NewGoogleTokenVerifier(clientID string) GoogleTokenVerifier {
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, token string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("google token validation failed: %w", err)
	}
	claim := func(key string) string {
		s, _ := payload.Claims[key].(string)
		return s
	}
	return &GoogleProfile{
		Subject:   payload.Subject,
		Email:     claim("email"),
		FirstName: claim("given_name"),
		LastName:  claim("family_name"),
		Picture:   claim("picture"),
	}, nil
}

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	google   GoogleTokenVerifier
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, google GoogleTokenVerifier) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		google:   google,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", "", fmt.Errorf("invalid email address: %q", in.Email)
	}
	if len(in.Password) < 8 {
		return nil, "", "", errors.New("password must be at least 8 characters")
	}
	role := in.Role
	if role == "" {
		role = domain.UserRoleCustomer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           domain.NewID(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		AuthProvider: domain.AuthProviderEmail,
		Role:         role,
		IsActive:     true,
		CreatedOn:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", "", ErrEmailTaken
		}
		return nil, "", "", err
	}

	return s.issueTokens(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if user.PasswordHash == "" {
		// OAuth-only account, no password to compare against
		return nil, "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", "", ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}
	return s.issueTokens(user)
}

// LoginWithGoogle signs in or registers a user from a verified Google
// ID token. An existing email account gets its Google identity linked
// on first Google sign-in.
func (s *authService) LoginWithGoogle(ctx context.Context, idToken string, role domain.UserRole) (*domain.User, string, string, error) {
	profile, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.userRepo.GetByGoogleID(ctx, profile.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.linkOrCreateGoogleUser(ctx, profile, role)
	}
	if err != nil {
		return nil, "", "", err
	}
	if !user.IsActive {
		return nil, "", "", ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}
	return s.issueTokens(user)
}

func (s *authService) linkOrCreateGoogleUser(ctx context.Context, profile *GoogleProfile, role domain.UserRole) (*domain.User, error) {
	email := strings.ToLower(profile.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		existing.GoogleID = profile.Subject
		if existing.PhotoURL == "" {
			existing.PhotoURL = profile.Picture
		}
		existing.IsVerified = true
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if role == "" {
		role = domain.UserRoleCustomer
	}
	user := &domain.User{
		ID:           domain.NewID(),
		Email:        email,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		GoogleID:     profile.Subject,
		PhotoURL:     profile.Picture,
		AuthProvider: domain.AuthProviderGoogle,
		Role:         role,
		IsActive:     true,
		IsVerified:   true,
		CreatedOn:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", err
	}
	if !user.IsActive {
		return "", "", ErrAccountDisabled
	}

	_, access, refresh, err := s.issueTokens(user)
	return access, refresh, err
}

func (s *authService) GetProfile(ctx context.Context, userID domain.ID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, user *domain.User) error {
	return s.userRepo.Update(ctx, user)
}

func (s *authService) issueTokens(user *domain.User) (*domain.User, string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return user, access, refresh, nil
}
