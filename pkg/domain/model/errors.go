package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain validation
var (
	ErrMissingName   = goerr.New("name is required")
	ErrInvalidInput  = goerr.New("invalid input")
	ErrInvalidFilter = goerr.New("invalid filter key")

	ErrUnsupportedScenario = goerr.New("scenario is not available for this model kind")
)

// Context keys for error values
const (
	SourceTypeKey = "source_type"
	ModelKindKey  = "model_kind"
	ScenarioKey   = "scenario"
	FilterKeyKey  = "filter_key"
)
