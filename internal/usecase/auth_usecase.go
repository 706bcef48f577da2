package usecase

import (
	"context"
	"errors"
	"strings"

	"homepro/internal/domain/profile"
	"homepro/internal/pkg/jwt"
	"homepro/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (profile.Profile, string, string, error)
	Login(ctx context.Context, in LoginInput) (profile.Profile, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	profiles repository.ProfileRepository
	jwt      jwt.Service
}

func NewAuthUsecase(profiles repository.ProfileRepository, jwtSvc jwt.Service) *Auth {
	return &Auth{profiles: profiles, jwt: jwtSvc}
}

// Register creates the account and its profile row in one step; the role is
// fixed here and never changes afterwards.
func (a *Auth) Register(ctx context.Context, in RegisterInput) (profile.Profile, string, string, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !isValidPassword(in.Password) {
		return profile.Profile{}, "", "", ErrInvalidInput
	}
	role := profile.Role(strings.TrimSpace(in.Role))
	if !role.Valid() {
		return profile.Profile{}, "", "", ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return profile.Profile{}, "", "", ErrInvalidInput
	}

	exists, err := a.profiles.ExistsByEmail(ctx, email)
	if err != nil {
		return profile.Profile{}, "", "", ErrInternal
	}
	if exists {
		return profile.Profile{}, "", "", ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return profile.Profile{}, "", "", ErrInternal
	}

	p := profile.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
	}

	if err := a.profiles.Create(ctx, p); err != nil {
		exists, exErr := a.profiles.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return profile.Profile{}, "", "", ErrEmailAlreadyRegistered
		}
		return profile.Profile{}, "", "", ErrInternal
	}

	created, err := a.profiles.GetByID(ctx, p.ID)
	if err != nil {
		return profile.Profile{}, "", "", ErrInternal
	}

	access, refresh, err := a.tokens(created)
	if err != nil {
		return profile.Profile{}, "", "", ErrInternal
	}
	return sanitizeProfile(created), access, refresh, nil
}

func (a *Auth) Login(ctx context.Context, in LoginInput) (profile.Profile, string, string, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return profile.Profile{}, "", "", ErrInvalidCredentials
	}

	p, err := a.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, "", "", ErrInvalidCredentials
		}
		return profile.Profile{}, "", "", ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(in.Password)); err != nil {
		return profile.Profile{}, "", "", ErrInvalidCredentials
	}

	access, refresh, err := a.tokens(p)
	if err != nil {
		return profile.Profile{}, "", "", ErrInternal
	}
	return sanitizeProfile(p), access, refresh, nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := a.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !a.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	p, err := a.profiles.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", "", ErrUnauthorized
		}
		return "", "", ErrInternal
	}

	return a.tokens(p)
}

func (a *Auth) tokens(p profile.Profile) (string, string, error) {
	access, err := a.jwt.GenerateAccessToken(p.ID, p.Email, string(p.Role))
	if err != nil {
		return "", "", err
	}
	refresh, err := a.jwt.GenerateRefreshToken(p.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= 8
}

func sanitizeProfile(p profile.Profile) profile.Profile {
	p.PasswordHash = ""
	return p
}
