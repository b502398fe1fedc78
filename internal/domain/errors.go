package domain

import "errors"

// Domain errors
var (
	ErrInvalidTerms           = errors.New("invalid loan terms")
	ErrCorruptTerms           = errors.New("corrupt loan terms - cannot build schedule")
	ErrInvalidEvent           = errors.New("event amount must be positive")
	ErrIllegalStateTransition = errors.New("loan is not active")
	ErrOptimisticLock         = errors.New("conditional update failed - loan state changed")
	ErrInvalidClientID        = errors.New("invalid client ID")
	ErrInvalidClientName      = errors.New("client name is required")
	ErrInvalidCredentials     = errors.New("invalid client credentials")
	ErrInsufficientFunds      = errors.New("insufficient funds for withdrawal")
)
