package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/domain/types"
)

const (
	filterKeyAll       = "all"
	filterKeySeparator = ":"
)

// FilterSelection is the composite model config filter: exactly one of
// FilterAll, FilterKind or FilterKindScenario. The interface is sealed.
type FilterSelection interface {
	// Key encodes the selection as "all", "<kind>" or "<kind>:<scenario>"
	Key() string
	// Match reports whether cfg belongs to the selection
	Match(cfg *ModelConfig) bool

	filterSelection()
}

// FilterAll selects every model config
type FilterAll struct{}

// FilterKind selects every model config of one kind
type FilterKind struct {
	Kind types.ModelKind
}

// FilterKindScenario selects model configs of one kind scoped to one scenario
type FilterKindScenario struct {
	Kind     types.ModelKind
	Scenario types.Scenario
}

func (FilterAll) filterSelection()          {}
func (FilterKind) filterSelection()         {}
func (FilterKindScenario) filterSelection() {}

func (FilterAll) Key() string { return filterKeyAll }

func (f FilterKind) Key() string { return f.Kind.String() }

func (f FilterKindScenario) Key() string {
	return f.Kind.String() + filterKeySeparator + f.Scenario.String()
}

func (FilterAll) Match(cfg *ModelConfig) bool { return cfg != nil }

func (f FilterKind) Match(cfg *ModelConfig) bool {
	return cfg != nil && cfg.Kind == f.Kind
}

func (f FilterKindScenario) Match(cfg *ModelConfig) bool {
	return cfg != nil && cfg.Kind == f.Kind && scenarioOf(cfg) == f.Scenario
}

func scenarioOf(cfg *ModelConfig) types.Scenario {
	if cfg.Scenario == "" {
		return types.ScenarioGeneral
	}
	return cfg.Scenario
}

// NewFilterKind validates kind and returns a kind selection
func NewFilterKind(kind types.ModelKind) (FilterSelection, error) {
	if !kind.IsValid() {
		return nil, goerr.Wrap(ErrInvalidFilter, "unknown model kind", goerr.V(ModelKindKey, kind))
	}
	return FilterKind{Kind: kind}, nil
}

// NewFilterKindScenario validates the pair and returns a kind+scenario selection
func NewFilterKindScenario(kind types.ModelKind, scenario types.Scenario) (FilterSelection, error) {
	if !kind.IsValid() {
		return nil, goerr.Wrap(ErrInvalidFilter, "unknown model kind", goerr.V(ModelKindKey, kind))
	}
	if !scenario.IsValid() {
		return nil, goerr.Wrap(ErrInvalidFilter, "unknown scenario", goerr.V(ScenarioKey, scenario))
	}
	if !kind.Supports(scenario) {
		return nil, goerr.Wrap(ErrInvalidFilter, "scenario is not available for this model kind",
			goerr.V(ModelKindKey, kind),
			goerr.V(ScenarioKey, scenario))
	}
	return FilterKindScenario{Kind: kind, Scenario: scenario}, nil
}

// EncodeFilter returns the key of sel
func EncodeFilter(sel FilterSelection) string {
	if sel == nil {
		return filterKeyAll
	}
	return sel.Key()
}

// DecodeFilter parses a filter key. Unknown kinds, unknown scenarios and scenarios
// not offered for the kind are rejected with ErrInvalidFilter.
func DecodeFilter(key string) (FilterSelection, error) {
	if key == filterKeyAll {
		return FilterAll{}, nil
	}

	kindPart, scenarioPart, hasScenario := strings.Cut(key, filterKeySeparator)
	if kindPart == "" {
		return nil, goerr.Wrap(ErrInvalidFilter, "empty filter key", goerr.V(FilterKeyKey, key))
	}
	if !hasScenario {
		sel, err := NewFilterKind(types.ModelKind(kindPart))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode filter", goerr.V(FilterKeyKey, key))
		}
		return sel, nil
	}

	sel, err := NewFilterKindScenario(types.ModelKind(kindPart), types.Scenario(scenarioPart))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode filter", goerr.V(FilterKeyKey, key))
	}
	return sel, nil
}

// AllFilterSelections lists every legal selection in display order:
// all, then each kind followed by its scenarios.
func AllFilterSelections() []FilterSelection {
	selections := []FilterSelection{FilterAll{}}
	for _, kind := range types.AllModelKinds() {
		selections = append(selections, FilterKind{Kind: kind})
		for _, scenario := range kind.Scenarios() {
			selections = append(selections, FilterKindScenario{Kind: kind, Scenario: scenario})
		}
	}
	return selections
}

// FilterCounts maps filter keys to the number of matching model configs
type FilterCounts map[string]int

// CountModelConfigs derives counts for every legal filter key from a cached collection.
// Keys without matches are present with a zero count.
func CountModelConfigs(items []*ModelConfig) FilterCounts {
	counts := make(FilterCounts)
	for _, sel := range AllFilterSelections() {
		counts[sel.Key()] = 0
	}

	for _, cfg := range items {
		if cfg == nil || !cfg.Kind.Supports(scenarioOf(cfg)) {
			continue
		}
		counts[filterKeyAll]++
		counts[FilterKind{Kind: cfg.Kind}.Key()]++
		counts[FilterKindScenario{Kind: cfg.Kind, Scenario: scenarioOf(cfg)}.Key()]++
	}
	return counts
}

// Count returns the count for sel. A zero count is a valid empty result.
func (c FilterCounts) Count(sel FilterSelection) int {
	return c[EncodeFilter(sel)]
}

// ApplyFilter returns the configs matching sel, preserving order
func ApplyFilter(items []*ModelConfig, sel FilterSelection) []*ModelConfig {
	if sel == nil {
		sel = FilterAll{}
	}
	matched := make([]*ModelConfig, 0, len(items))
	for _, cfg := range items {
		if sel.Match(cfg) {
			matched = append(matched, cfg)
		}
	}
	return matched
}

// FilterRow is one selectable entry of the filter menu
type FilterRow struct {
	Selection FilterSelection
	Key       string
	Count     int
	Depth     int
}

// FilterRows lays out the filter menu. When hideEmptyScenarios is set, scenario rows
// with a zero count are omitted; kind rows and "all" are always listed.
func FilterRows(counts FilterCounts, hideEmptyScenarios bool) []FilterRow {
	var rows []FilterRow
	for _, sel := range AllFilterSelections() {
		row := FilterRow{Selection: sel, Key: sel.Key(), Count: counts.Count(sel)}
		switch sel.(type) {
		case FilterKind:
			row.Depth = 1
		case FilterKindScenario:
			row.Depth = 2
			if hideEmptyScenarios && row.Count == 0 {
				continue
			}
		}
		rows = append(rows, row)
	}
	return rows
}
