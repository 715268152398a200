package errorvalues

import "errors"

var ErrKeyNotFound = errors.New("key doesn't exist")

var (
	ErrEmptyUserName    = errors.New("user name is empty")
	ErrEmptyPetName     = errors.New("pet name is empty")
	ErrNameTooLong      = errors.New("name is too long")
	ErrInvalidTaskXP    = errors.New("task xp must be positive")
	ErrUnknownTask      = errors.New("no such task")
	ErrInvalidMood      = errors.New("unknown mood")
	ErrInvalidEntry     = errors.New("invalid daily entry")
	ErrWrongStep        = errors.New("action not allowed on this onboarding step")
	ErrNotOnboarding    = errors.New("controller is not onboarding")
	ErrNotActive        = errors.New("controller is not active")
	ErrControllerClosed = errors.New("controller is closed")
)
