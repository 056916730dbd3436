package domain

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by RelationshipError so callers can branch with errors.Is.
var (
	// ErrRelationAlreadySet reports that a write-once relation already holds a member.
	ErrRelationAlreadySet = errors.New("relation already set")
	// ErrGenderMismatch reports that a relative has the wrong gender for the requested role.
	ErrGenderMismatch = errors.New("gender does not fit relation")
	// ErrInvalidRelative reports a nil, self-referencing, or otherwise unusable relative.
	ErrInvalidRelative = errors.New("invalid relative")
)

// ValidationError is returned when a field value fails its charset or shape predicate.
// The receiving record is left unchanged.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func invalidField(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// RelationshipError is returned when a relationship mutator's precondition is violated.
// Neither member is modified.
type RelationshipError struct {
	Relation RelationKind
	MemberID string
	Reason   string
	Err      error
}

func (e *RelationshipError) Error() string {
	return fmt.Sprintf("cannot set %s of member %s: %s", e.Relation, e.MemberID, e.Reason)
}

// Unwrap exposes the sentinel cause.
func (e *RelationshipError) Unwrap() error { return e.Err }

func relationError(kind RelationKind, m *Member, cause error, reason string) *RelationshipError {
	id := ""
	if m != nil {
		id = m.id
	}
	return &RelationshipError{Relation: kind, MemberID: id, Reason: reason, Err: cause}
}

// PersistenceError wraps any failure to store, retrieve, encode, or decode a tree document.
type PersistenceError struct {
	Op       string
	Location string
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("%s family tree: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s family tree %s: %v", e.Op, e.Location, e.Err)
}

// Unwrap exposes the underlying storage or decode error.
func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsRelationshipError reports whether err is or wraps a *RelationshipError.
func IsRelationshipError(err error) bool {
	var target *RelationshipError
	return errors.As(err, &target)
}

// IsPersistenceError reports whether err is or wraps a *PersistenceError.
func IsPersistenceError(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
