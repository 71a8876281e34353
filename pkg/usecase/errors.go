package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// ErrPrecondition marks a caller defect, such as updating without a selected
	// entity. It is reported as a programming error, never shown to the user.
	ErrPrecondition = goerr.New("mutation precondition violated")

	// ErrValidation wraps payloads rejected before any request is sent
	ErrValidation = goerr.New("payload rejected by validation")
)

// Context keys for error values
const (
	EntityKey    = "entity"
	EntityIDKey  = "entity_id"
	SelectedKey  = "selected_id"
	OperationKey = "operation"
)
