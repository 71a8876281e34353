package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/domain/types"
)

// SourceID is a UUID-based identifier for Source
type SourceID string

// NewSourceID generates a new UUID v4 SourceID
func NewSourceID() SourceID {
	return SourceID(uuid.New().String())
}

// Source represents a configured data origin whose ingested documents are isolated
// from other sources. DocumentCount is derived by the remote service and read-only.
type Source struct {
	ID            SourceID          `json:"id"`
	Name          string            `json:"name"`
	SourceType    types.SourceType  `json:"source_type,omitempty"`
	Description   string            `json:"description,omitempty"`
	Enabled       bool              `json:"enabled"`
	Config        map[string]string `json:"config,omitempty"`
	DocumentCount int               `json:"document_count"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// EntityID returns the identifier shared by all remotely owned records
func (s *Source) EntityID() string {
	return string(s.ID)
}

// DisplayName returns the name shown in lists and notifications
func (s *Source) DisplayName() string {
	return s.Name
}

// SourceInput is the editable attribute subset of a Source sent on create and update
type SourceInput struct {
	Name        string            `json:"name"`
	SourceType  types.SourceType  `json:"source_type,omitempty"`
	Description string            `json:"description,omitempty"`
	Enabled     bool              `json:"enabled"`
	Config      map[string]string `json:"config,omitempty"`
}

// Validate checks the payload before it is sent to the remote service
func (x SourceInput) Validate() error {
	if strings.TrimSpace(x.Name) == "" {
		return goerr.Wrap(ErrMissingName, "source name is required")
	}
	if x.SourceType != "" && !x.SourceType.IsValid() {
		return goerr.Wrap(ErrInvalidInput, "invalid source type", goerr.V(SourceTypeKey, x.SourceType))
	}
	return nil
}

// InputOf returns the editable attributes of s, used to prefill an edit dialog
func (s *Source) InputOf() SourceInput {
	var cfg map[string]string
	if len(s.Config) > 0 {
		cfg = make(map[string]string, len(s.Config))
		for k, v := range s.Config {
			cfg[k] = v
		}
	}
	return SourceInput{
		Name:        s.Name,
		SourceType:  s.SourceType,
		Description: s.Description,
		Enabled:     s.Enabled,
		Config:      cfg,
	}
}
