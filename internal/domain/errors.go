package domain

import "errors"

// Errores de dominio. Los handlers los clasifican con errors.Is.
var (
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrInvalidToken         = errors.New("invalid token")
	ErrAlreadyCreator       = errors.New("user is already a creator")
	ErrAlreadyProcessed     = errors.New("verification already processed")
	ErrNotFound             = errors.New("not found")
	ErrNotApproved          = errors.New("content not approved")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrConfiguration        = errors.New("configuration error")

	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	ErrInactiveUser = errors.New("user account is inactive")
	ErrSelfFollow   = errors.New("cannot follow yourself")
)
