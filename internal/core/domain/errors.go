package domain

import "errors"

// Common domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthenticated  = errors.New("caller identity missing")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyExists    = errors.New("resource already exists")
)

// Allocator errors
var (
	ErrCounterNotInitialized     = errors.New("sfa id counter not initialized")
	ErrCounterAlreadyInitialized = errors.New("sfa id counter already initialized")
)

// Approval workflow errors
var (
	ErrRequestNotFound  = errors.New("beneficiary request not found")
	ErrAlreadyVoted     = errors.New("admin has already voted on this request")
	ErrRequestFinalized = errors.New("request is already approved or rejected")
)
