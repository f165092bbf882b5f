package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"condoparcel/internal/caching"
	"condoparcel/internal/common"
	"condoparcel/internal/models"
	"condoparcel/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)

// AuthService authenticates users and issues the bearer tokens the API accepts.
type AuthService interface {
	Login(ctx context.Context, login, password string) (*models.TokenResponse, error)
	GenerateToken(user *models.User) (*models.TokenResponse, error)
}

// TokenClaims are carried by every access token.
type TokenClaims struct {
	UserID        string `json:"user_id"`
	CondominiumID string `json:"condominium_id"`
	Role          string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  repositories.UserRepository
	cache     caching.ViewCache
	jwtSecret []byte
	issuer    string
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repositories.UserRepository, cache caching.ViewCache, jwtSecret, issuer string, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		cache:     cache,
		jwtSecret: []byte(jwtSecret),
		issuer:    issuer,
		tokenTTL:  tokenTTL,
	}
}

// Login accepts an email address or a CPF (punctuation optional) as the login.
func (s *authService) Login(ctx context.Context, login, password string) (*models.TokenResponse, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, errInvalidCredentials
	}

	isEmail := strings.Contains(login, "@")
	key := strings.ToLower(login)
	if !isEmail {
		key = common.OnlyDigits(login)
	}

	limited, err := s.cache.IsRateLimited(ctx, "login:"+key, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		log.Warn().Err(err).Msg("login rate limiter unavailable")
	} else if limited {
		return nil, common.ErrRateLimited
	}

	var user *models.User
	switch {
	case isEmail:
		user, err = s.userRepo.GetByEmail(ctx, key)
	case len(key) == 11:
		user, err = s.userRepo.GetByTaxID(ctx, key)
	default:
		return nil, errInvalidCredentials
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	if !user.Active {
		return nil, errInvalidCredentials
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user logged in")
	return s.GenerateToken(user)
}

func (s *authService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:        user.ID.String(),
		CondominiumID: user.CondominiumID.String(),
		Role:          string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:   signed,
		TokenType:     "Bearer",
		ExpiresIn:     int(s.tokenTTL.Seconds()),
		UserID:        claims.UserID,
		CondominiumID: claims.CondominiumID,
		Role:          user.Role,
		IssuedAt:      now,
	}, nil
}
