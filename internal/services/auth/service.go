package auth

import (
	"context"
	"errors"
	"time"

	"gigpay/internal/logger"
	"gigpay/internal/models"
	"gigpay/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnknownProfile     = errors.New("profile no longer exists")
)

type ProfileReader interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Profile, error)
}

// ProfileCache stores profile snapshots for the auth middleware. GetProfile
// returns (nil, nil) on a miss.
type ProfileCache interface {
	GetProfile(ctx context.Context, id uint) (*models.Profile, error)
	CacheProfile(ctx context.Context, profile *models.Profile) error
}

type Service interface {
	Login(ctx context.Context, profileID uint, password string) (string, error)
	ParseToken(token string) (*models.ProfileClaims, error)
	ResolveProfile(ctx context.Context, id uint) (*models.Profile, error)
}

type service struct {
	profiles ProfileReader
	cache    ProfileCache
	tokens   *tokenIssuer
	log      *logger.Logger
}

func NewService(profiles ProfileReader, cache ProfileCache, secret string, ttl time.Duration, log *logger.Logger) Service {
	if profiles == nil {
		panic("profile reader is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &service{
		profiles: profiles,
		cache:    cache,
		tokens:   newTokenIssuer(secret, ttl),
		log:      log.With("component", "auth"),
	}
}

func (s *service) Login(ctx context.Context, profileID uint, password string) (string, error) {
	profile, err := s.profiles.GetByID(ctx, nil, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			s.log.Warn("login failed: unknown profile", "profile_id", profileID)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if profile.PasswordHash == "" {
		s.log.Warn("login failed: profile has no password", "profile_id", profileID)
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login failed: incorrect password", "profile_id", profileID)
		return "", ErrInvalidCredentials
	}

	return s.tokens.issue(profile.ID)
}

func (s *service) ParseToken(token string) (*models.ProfileClaims, error) {
	claims, err := s.tokens.parse(token)
	if err != nil {
		s.log.Debug("token rejected", "error", err.Error())
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ResolveProfile loads the profile behind a token, preferring the cache.
// Cache errors are logged and fall through to the database.
func (s *service) ResolveProfile(ctx context.Context, id uint) (*models.Profile, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProfile(ctx, id)
		if err != nil {
			s.log.Warn("profile cache read failed", "profile_id", id, "error", err.Error())
		} else if cached != nil {
			return cached, nil
		}
	}

	profile, err := s.profiles.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrUnknownProfile
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheProfile(ctx, profile); err != nil {
			s.log.Warn("profile cache write failed", "profile_id", id, "error", err.Error())
		}
	}
	return profile, nil
}

// HashPassword returns the bcrypt hash stored on a profile.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
