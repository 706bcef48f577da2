package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

type Role string

const (
	RoleJobPoster    Role = "job_poster"
	RoleProfessional Role = "professional"
)

func (r Role) Valid() bool {
	return r == RoleJobPoster || r == RoleProfessional
}

// Profile is the single authoritative account row: credentials, display
// fields and the role fixed at signup.
type Profile struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Role         Role
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
