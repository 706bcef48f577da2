package usecase

import (
	"context"
	"errors"
	"strings"

	"homepro/internal/domain/profile"
	"homepro/internal/repository"

	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (profile.Profile, error)
}

type Profile struct {
	profiles repository.ProfileRepository
}

func NewProfileUsecase(profiles repository.ProfileRepository) *Profile {
	return &Profile{profiles: profiles}
}

func (u *Profile) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	p, err := u.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, err
		}
		return profile.Profile{}, ErrInternal
	}
	return sanitizeProfile(p), nil
}

// UpdateProfile changes display fields only; email and role are immutable.
func (u *Profile) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (profile.Profile, error) {
	p, err := u.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, err
		}
		return profile.Profile{}, ErrInternal
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return profile.Profile{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}

	if err := u.profiles.Update(ctx, p); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, err
		}
		return profile.Profile{}, ErrInternal
	}
	return sanitizeProfile(p), nil
}
