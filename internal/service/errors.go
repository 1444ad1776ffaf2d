package service

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when access is denied
	ErrForbidden = errors.New("access forbidden")

	// ErrInvalidCredentials is returned when authentication fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPharmacyNotActive is returned when the pharmacy account is deactivated
	ErrPharmacyNotActive = errors.New("pharmacy account is not active")

	// ErrInvalidTransition is returned for an illegal return-order status change
	ErrInvalidTransition = errors.New("invalid status transition")
)
