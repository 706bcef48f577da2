package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Role and ownership rules, checked once, server-side.
	ErrNotJobOwner    = errors.New("caller does not own this job")
	ErrOwnJobBid      = errors.New("cannot bid on your own job")
	ErrRoleNotAllowed = errors.New("role does not allow this action")
	ErrNotParticipant = errors.New("caller is not a conversation participant")
)
