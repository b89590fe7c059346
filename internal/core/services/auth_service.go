package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	userRepo       ports.UserRepository
	authRepo       ports.AuthRepository
	tokenVerifier  ports.TokenVerifier
	jwtSecret      []byte
	googleClientID string
	clock          ports.Clock
}

func NewAuthService(userRepo ports.UserRepository, authRepo ports.AuthRepository, tokenVerifier ports.TokenVerifier, jwtSecret []byte, googleClientID string, clock ports.Clock) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		authRepo:       authRepo,
		tokenVerifier:  tokenVerifier,
		jwtSecret:      jwtSecret,
		googleClientID: googleClientID,
		clock:          clock,
	}
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, googleToken string) (string, string, error) {
	payload, err := s.tokenVerifier.Verify(ctx, googleToken, s.googleClientID)
	if err != nil {
		return "", "", fmt.Errorf("invalid google token: %w", err)
	}

	return s.login(ctx, payload.Email)
}

func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return "", "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return "", "", errors.New("refresh token not found")
	}
	if rtEntity.Revoked {
		return "", "", errors.New("refresh token revoked")
	}
	if rtEntity.ExpiresAt.Before(s.clock.Now()) {
		return "", "", errors.New("refresh token expired")
	}

	user, err := s.userRepo.GetByID(ctx, rtEntity.UserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	// Refresh tokens are not rotated; the stored one stays valid until expiry.
	return accessToken, refreshToken, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return nil
	}

	return s.authRepo.RevokeRefreshToken(ctx, rtEntity.ID)
}

func (s *AuthService) login(ctx context.Context, email string) (string, string, error) {
	user, err := s.userRepo.GetByHandle(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		user = &domain.User{
			Handle:    email,
			CreatedAt: s.clock.Now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			// A concurrent first login may have created the user already.
			if errors.Is(err, domain.ErrHandleTaken) {
				user, err = s.userRepo.GetByHandle(ctx, email)
				if err != nil || user == nil {
					return "", "", fmt.Errorf("failed to get user after create race: %w", err)
				}
			} else {
				return "", "", fmt.Errorf("failed to create user: %w", err)
			}
		}
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rtEntity := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: s.hashToken(refreshToken),
		ExpiresAt: s.clock.Now().Add(refreshTokenTTL),
		Revoked:   false,
		CreatedAt: s.clock.Now(),
	}
	if err := s.authRepo.StoreRefreshToken(ctx, rtEntity); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":    strconv.FormatInt(user.ID, 10),
		"handle": user.Handle,
		"exp":    now.Add(accessTokenTTL).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
