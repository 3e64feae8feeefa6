// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the reconciliation services to distinguish between
// different failure scenarios without string matching. Storage-level
// constraint violations (duplicate code, duplicate transaction
// reference) are mapped onto these sentinels so callers can treat them
// as confirmation of an application-level check rather than as
// unexpected server errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state. Handlers should translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering with an email address
// that already has an account.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateCode is returned when inserting a payment code whose
// value collides with an existing row. The registry retries generation
// on this error.
var ErrDuplicateCode = errors.New("payment code already exists")

// ErrDuplicateTransaction is returned when an audit row insert hits the
// unique index on the transaction reference. This is the storage-level
// backstop for notification idempotency.
var ErrDuplicateTransaction = errors.New("transaction reference already processed")
