package errs

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PermissionDenied means the actor lacks a capability or role seniority.
// Operations returning it have performed no mutation.
type PermissionDenied struct {
	Role       string
	Capability string
}

func (e *PermissionDenied) Error() string {
	if e.Capability != "" {
		return fmt.Sprintf("permission denied: role %s lacks %s", e.Role, e.Capability)
	}
	return fmt.Sprintf("permission denied for role %s", e.Role)
}

// NotFound means a referenced document id did not resolve.
type NotFound struct {
	Resource string
	ID       string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidStateTransition reports the current and attempted task status.
type InvalidStateTransition struct {
	From string
	To   string
}

func (e *InvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition: %s -> %s", e.From, e.To)
}

// ValidationError carries the offending field names.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// Conflict means a concurrent mutation won the conditional update.
// The caller should re-read and retry.
type Conflict struct {
	Reason string
}

func (e *Conflict) Error() string {
	return "conflict: " + e.Reason
}

// AuditDegraded wraps an operation that succeeded while its audit append
// failed. The primary result stands; the degradation must not be hidden.
type AuditDegraded struct {
	Err error
}

func (e *AuditDegraded) Error() string {
	return "operation succeeded but audit append failed: " + e.Err.Error()
}

func (e *AuditDegraded) Unwrap() error { return e.Err }

// StatusFor maps a domain error to an HTTP status code.
func StatusFor(err error) int {
	switch err.(type) {
	case *PermissionDenied:
		return fiber.StatusForbidden
	case *NotFound:
		return fiber.StatusNotFound
	case *InvalidStateTransition:
		return fiber.StatusUnprocessableEntity
	case *ValidationError:
		return fiber.StatusBadRequest
	case *Conflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
