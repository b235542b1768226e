package achievement

import "errors"

var (
	ErrNilState             = errors.New("achievement: state not configured")
	ErrNilEconomy           = errors.New("achievement: xp economy not configured")
	ErrNilAuthorizer        = errors.New("achievement: authorizer not configured")
	ErrInvalidID            = errors.New("achievement: invalid identifier")
	ErrInvalidName          = errors.New("achievement: invalid name")
	ErrInvalidURI           = errors.New("achievement: invalid metadata uri")
	ErrInvalidXPReward      = errors.New("achievement: xp reward must be positive")
	ErrAchievementExists    = errors.New("achievement: type already exists")
	ErrAchievementNotFound  = errors.New("achievement: type not found")
	ErrAchievementInactive  = errors.New("achievement: type not active")
	ErrSupplyExhausted      = errors.New("achievement: max supply reached")
	ErrAlreadyAwarded       = errors.New("achievement: already awarded to recipient")
	ErrAlreadyClaimed       = errors.New("achievement: slot already claimed")
	ErrProfileNotFound      = errors.New("achievement: learner profile not found")
	ErrZeroRequestedXP      = errors.New("achievement: requested xp must be positive")
)
