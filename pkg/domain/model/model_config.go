package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/domain/types"
)

// ModelConfigID is a UUID-based identifier for ModelConfig
type ModelConfigID string

// NewModelConfigID generates a new UUID v4 ModelConfigID
func NewModelConfigID() ModelConfigID {
	return ModelConfigID(uuid.New().String())
}

// ModelConfig is a configured LLM or embedding model, optionally scoped to a scenario
type ModelConfig struct {
	ID        ModelConfigID   `json:"id"`
	Name      string          `json:"name"`
	Kind      types.ModelKind `json:"kind"`
	Scenario  types.Scenario  `json:"scenario"`
	Provider  string          `json:"provider,omitempty"`
	Model     string          `json:"model,omitempty"`
	BaseURL   string          `json:"base_url,omitempty"`
	APIKey    string          `json:"api_key,omitempty" masq:"secret"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EntityID returns the identifier shared by all remotely owned records
func (m *ModelConfig) EntityID() string {
	return string(m.ID)
}

// DisplayName returns the name shown in lists and notifications
func (m *ModelConfig) DisplayName() string {
	return m.Name
}

// ModelConfigInput is the editable attribute subset of a ModelConfig
type ModelConfigInput struct {
	Name      string          `json:"name"`
	Kind      types.ModelKind `json:"kind"`
	Scenario  types.Scenario  `json:"scenario"`
	Provider  string          `json:"provider,omitempty"`
	Model     string          `json:"model,omitempty"`
	BaseURL   string          `json:"base_url,omitempty"`
	APIKey    string          `json:"api_key,omitempty" masq:"secret"`
	IsDefault bool            `json:"is_default"`
}

// Validate checks name and the kind/scenario pair. An empty scenario means general.
func (x ModelConfigInput) Validate() error {
	if strings.TrimSpace(x.Name) == "" {
		return goerr.Wrap(ErrMissingName, "model config name is required")
	}
	if !x.Kind.IsValid() {
		return goerr.Wrap(ErrInvalidInput, "invalid model kind", goerr.V(ModelKindKey, x.Kind))
	}
	scenario := x.Scenario
	if scenario == "" {
		scenario = types.ScenarioGeneral
	}
	if !x.Kind.Supports(scenario) {
		return goerr.Wrap(ErrUnsupportedScenario, "invalid model config scenario",
			goerr.V(ModelKindKey, x.Kind),
			goerr.V(ScenarioKey, scenario))
	}
	return nil
}

// Normalized returns a copy with the default scenario filled in
func (x ModelConfigInput) Normalized() ModelConfigInput {
	if x.Scenario == "" {
		x.Scenario = types.ScenarioGeneral
	}
	return x
}

// InputOf returns the editable attributes of m, used to prefill an edit dialog
func (m *ModelConfig) InputOf() ModelConfigInput {
	return ModelConfigInput{
		Name:      m.Name,
		Kind:      m.Kind,
		Scenario:  m.Scenario,
		Provider:  m.Provider,
		Model:     m.Model,
		BaseURL:   m.BaseURL,
		APIKey:    m.APIKey,
		IsDefault: m.IsDefault,
	}
}
