package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUpstream          = errors.New("upstream failure")
	ErrDevice            = errors.New("audio device unavailable")
	ErrTimeoutExpired    = errors.New("session expired after inactivity")
)

var (
	ErrEmptySymptoms             = fmt.Errorf("%w: symptoms are required", ErrValidation)
	ErrMissingSessionID          = fmt.Errorf("%w: session id is required", ErrValidation)
	ErrMissingEmail              = fmt.Errorf("%w: email is required", ErrValidation)
	ErrSpecialistNotMatched      = fmt.Errorf("%w: specialist is not among the matched specialists", ErrValidation)
	ErrInvalidTranscript         = fmt.Errorf("%w: transcript entries must have role user or assistant", ErrValidation)
	ErrSessionNotFound           = fmt.Errorf("session %w", ErrNotFound)
	ErrUserNotFound              = fmt.Errorf("user %w", ErrNotFound)
	ErrSpecialistAlreadySelected = fmt.Errorf("%w: a different specialist is already selected", ErrInvalidTransition)
	ErrSessionNotActive          = fmt.Errorf("%w: session must be active", ErrInvalidTransition)
	ErrSessionNotCompleted       = fmt.Errorf("%w: session is not completed", ErrInvalidTransition)
	ErrSessionCompleted          = fmt.Errorf("%w: session is already completed", ErrInvalidTransition)
	ErrDuplicateEmail            = errors.New("email already registered")
)
