package usecase

import (
	"errors"

	"FinScore/internal/services/indicators"
	"FinScore/internal/services/momentum"
)

// Request errors. They are fatal for the whole call and never retried.
var (
	ErrUnknownUniverse = errors.New("unknown universe")
	ErrNoSymbols       = errors.New("no symbols to scan")
	ErrInvalidSortKey  = errors.New("invalid sort key")
	ErrInvalidRequest  = errors.New("invalid request")
)

// IsRequestError reports whether err was caused by the caller's input.
func IsRequestError(err error) bool {
	for _, target := range []error{
		ErrUnknownUniverse,
		ErrNoSymbols,
		ErrInvalidSortKey,
		ErrInvalidRequest,
		momentum.ErrUnknownStrategy,
		indicators.ErrMalformedSeries,
		indicators.ErrInsufficientData,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
