package service

import (
	"errors"
	"fmt"
	"strings"
)

// AuthErrorKind separates a missing credential from a rejected one
type AuthErrorKind int

const (
	AuthMissing AuthErrorKind = iota
	AuthInvalid
)

// AuthError is returned when a request cannot be tied to a verified identity
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Kind == AuthMissing {
		return "missing bearer token"
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid token: %v", e.Err)
	}
	return "invalid token"
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError reports a request field that is absent or malformed
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// ErrEmptyHistory is returned when a recommendation is asked for with no meals logged
var ErrEmptyHistory = errors.New("no meals found")

// DataError wraps a failure of the meal store
type DataError struct {
	Op  string
	Err error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// ConfigError is returned by the generation client when its settings are incomplete
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "generation service is not configured, missing " + strings.Join(e.Missing, ", ")
}

// GenerationErrorKind classifies a failed generation call
type GenerationErrorKind int

const (
	GenerationStatus GenerationErrorKind = iota
	GenerationTransport
	GenerationMalformed
)

func (k GenerationErrorKind) String() string {
	switch k {
	case GenerationStatus:
		return "status"
	case GenerationTransport:
		return "transport"
	case GenerationMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// GenerationError is returned when the generation service could not produce text
type GenerationError struct {
	Kind       GenerationErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case GenerationStatus:
		return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, e.Body)
	case GenerationTransport:
		return fmt.Sprintf("generation request failed: %v", e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("malformed generation response: %v", e.Err)
		}
		return "malformed generation response"
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }
