package types

import "fmt"

// SourceType represents how a source ingests documents
type SourceType string

const (
	SourceTypeWeb    SourceType = "web"
	SourceTypeFile   SourceType = "file"
	SourceTypeNotion SourceType = "notion"
	SourceTypeSlack  SourceType = "slack"
	SourceTypeAPI    SourceType = "api"
)

// AllSourceTypes returns all valid source types
func AllSourceTypes() []SourceType {
	return []SourceType{
		SourceTypeWeb,
		SourceTypeFile,
		SourceTypeNotion,
		SourceTypeSlack,
		SourceTypeAPI,
	}
}

// IsValid checks if the source type is valid
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeWeb,
		SourceTypeFile,
		SourceTypeNotion,
		SourceTypeSlack,
		SourceTypeAPI:
		return true
	default:
		return false
	}
}

// String returns the string representation of the source type
func (t SourceType) String() string {
	return string(t)
}

// ParseSourceType parses a string into a SourceType
func ParseSourceType(s string) (SourceType, error) {
	t := SourceType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid source type: %s", s)
	}
	return t, nil
}
