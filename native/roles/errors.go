package roles

import "errors"

var (
	ErrNilState       = errors.New("roles: state not configured")
	ErrUnauthorized   = errors.New("roles: unauthorized")
	ErrConfigMissing  = errors.New("roles: academy config not initialised")
	ErrMinterNotFound = errors.New("roles: minter role not found")
	ErrMinterInactive = errors.New("roles: minter role inactive")
	ErrMinterExists   = errors.New("roles: minter role already registered")
	ErrInvalidLabel   = errors.New("roles: invalid label")
	ErrZeroAddress    = errors.New("roles: zero address")
)
