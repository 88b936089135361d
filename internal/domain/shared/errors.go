package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// BadRequestError reports malformed or out-of-range caller input
// (bad coordinates, empty usernames, unparsable payloads).

type BadRequestError struct {
	*DomainError
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{DomainError: &DomainError{Message: message}}
}

// NotFoundError reports an unknown game code, lobby code, board or token.

type NotFoundError struct {
	*DomainError
	Resource string
	Key      string
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s not found: %s", resource, key)},
		Resource:    resource,
		Key:         key,
	}
}

// ForbiddenError reports an actor that is not a participant of the
// game it tries to act on.

type ForbiddenError struct {
	*DomainError
	PlayerID string
}

func NewForbiddenError(message, playerID string) *ForbiddenError {
	return &ForbiddenError{
		DomainError: &DomainError{Message: message},
		PlayerID:    playerID,
	}
}

// IllegalStateError reports a valid actor attempting an operation the
// current game status does not admit.

type IllegalStateError struct {
	*DomainError
	Status string
}

func NewIllegalStateError(message, status string) *IllegalStateError {
	return &IllegalStateError{
		DomainError: &DomainError{Message: message},
		Status:      status,
	}
}

// OutOfTurnError is the turn-enforcement violation. It is kept separate
// from IllegalStateError so transports can give it a distinct payload.

type OutOfTurnError struct {
	*DomainError
	PlayerID string
}

func NewOutOfTurnError(playerID string) *OutOfTurnError {
	return &OutOfTurnError{
		DomainError: &DomainError{Message: fmt.Sprintf("player %s fired out of turn", playerID)},
		PlayerID:    playerID,
	}
}

// ConflictError reports an optimistic concurrency failure that survived
// its retry budget.

type ConflictError struct {
	*DomainError
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{DomainError: &DomainError{Message: message}}
}

// InvalidConfigError reports a rejected configuration value. Raised at
// boot; never from a game operation.

type InvalidConfigError struct {
	*DomainError
	Field string
}

func NewInvalidConfigError(field, message string) *InvalidConfigError {
	return &InvalidConfigError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", field, message)},
		Field:       field,
	}
}

// ValidationError carries a field-level input validation failure.

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
