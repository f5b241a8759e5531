package errs

import "errors"

// Document store errors.
var (
	DocNotFound = errors.New("document not found")
	DocExists   = errors.New("document already exists")
	TxConflict  = errors.New("transaction conflict")
)

// Dispatch errors.
var (
	ResolveFailed     = errors.New("executor endpoint resolution failed")
	DeadlineExceeded  = errors.New("dispatch deadline exceeded")
	TerminalImmutable = errors.New("submission already in terminal status")
)

// Auth errors.
var (
	InvalidCredentials = errors.New("invalid credentials")
	InternalError      = errors.New("internal error")
	GeneratingToken    = errors.New("error generating token")
	FailedToCreateUser = errors.New("failed to create user")
)
