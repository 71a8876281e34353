package types

import "github.com/m-mizutani/goerr/v2"

// ModelKind represents the family of a configured model
type ModelKind string

const (
	ModelKindLLM       ModelKind = "llm"
	ModelKindEmbedding ModelKind = "embedding"
)

// AllModelKinds returns all valid model kinds in display order
func AllModelKinds() []ModelKind {
	return []ModelKind{
		ModelKindLLM,
		ModelKindEmbedding,
	}
}

// IsValid checks if the model kind is valid
func (k ModelKind) IsValid() bool {
	switch k {
	case ModelKindLLM, ModelKindEmbedding:
		return true
	default:
		return false
	}
}

// String returns the string representation of the model kind
func (k ModelKind) String() string {
	return string(k)
}

// Scenarios returns the usage scenarios a model of this kind may be scoped to.
// Embedding models only serve the general scenario.
func (k ModelKind) Scenarios() []Scenario {
	switch k {
	case ModelKindLLM:
		return AllScenarios()
	case ModelKindEmbedding:
		return []Scenario{ScenarioGeneral}
	default:
		return nil
	}
}

// Supports reports whether scenario is valid for this kind
func (k ModelKind) Supports(s Scenario) bool {
	for _, candidate := range k.Scenarios() {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseModelKind parses a string into a ModelKind
func ParseModelKind(s string) (ModelKind, error) {
	kind := ModelKind(s)
	if !kind.IsValid() {
		return "", goerr.New("invalid model kind", goerr.V("kind", s))
	}
	return kind, nil
}

// Scenario represents the usage scenario a model configuration is scoped to
type Scenario string

const (
	ScenarioGeneral Scenario = "general"
	ScenarioExtract Scenario = "extract"
	ScenarioSearch  Scenario = "search"
	ScenarioChat    Scenario = "chat"
	ScenarioSummary Scenario = "summary"
)

// AllScenarios returns all scenarios in display order
func AllScenarios() []Scenario {
	return []Scenario{
		ScenarioGeneral,
		ScenarioExtract,
		ScenarioSearch,
		ScenarioChat,
		ScenarioSummary,
	}
}

// IsValid checks if the scenario is valid
func (s Scenario) IsValid() bool {
	switch s {
	case ScenarioGeneral,
		ScenarioExtract,
		ScenarioSearch,
		ScenarioChat,
		ScenarioSummary:
		return true
	default:
		return false
	}
}

// String returns the string representation of the scenario
func (s Scenario) String() string {
	return string(s)
}

// ParseScenario parses a string into a Scenario
func ParseScenario(s string) (Scenario, error) {
	scenario := Scenario(s)
	if !scenario.IsValid() {
		return "", goerr.New("invalid scenario", goerr.V("scenario", s))
	}
	return scenario, nil
}
