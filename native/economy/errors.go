package economy

import "errors"

var (
	ErrNilState            = errors.New("economy: state not configured")
	ErrNilMinter           = errors.New("economy: token minter not configured")
	ErrNilAuthorizer       = errors.New("economy: authorizer not configured")
	ErrConfigExists        = errors.New("economy: academy config already initialised")
	ErrConfigMissing       = errors.New("economy: academy config not initialised")
	ErrSeasonClosed        = errors.New("economy: season closed")
	ErrSeasonAlreadyClosed = errors.New("economy: season already closed")
	ErrSeasonNotSequential = errors.New("economy: season number not sequential")
	ErrStaleMintHandle     = errors.New("economy: stale mint handle")
	ErrInvalidMintHandle   = errors.New("economy: invalid mint handle")
	ErrMintCapExceeded     = errors.New("economy: per-call mint cap exceeded")
)
