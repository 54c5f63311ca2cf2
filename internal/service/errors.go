// Package service contains application services that orchestrate stores.
package service

import "errors"

// Common service errors.
var (
	// ErrIncorrectPassword is returned when a credential check fails,
	// either because no password was supplied or because it did not match.
	ErrIncorrectPassword = errors.New("incorrect credentials")
)
