package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Degenerate-input errors: a denominator the metric depends on is zero.
	ErrInsufficientData    = errors.New("insufficient data for analysis")
	ErrZeroVariance        = fmt.Errorf("%w: zero variance", ErrInsufficientData)
	ErrNoQualifyingTargets = fmt.Errorf("%w: no target met min_samples", ErrInsufficientData)

	// Input-contract errors
	ErrSchema        = errors.New("input schema violation")
	ErrUnsortedInput = errors.New("input not sorted chronologically")

	// Configuration errors
	ErrConfig = errors.New("invalid configuration")
)

// Error constructors with context
func NewSchemaError(column string, reason string) error {
	return fmt.Errorf("%w: column %q: %s", ErrSchema, column, reason)
}

func NewConfigError(param string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfig, param, reason)
}

func NewInsufficientDataError(context string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, context)
}

// Error checking helpers
func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}
