package usecase

import (
	"errors"
	"strings"

	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

// ResolveMessage picks the message shown to the user for a failed remote call: the
// structured message from the remote error body, then the transport error message,
// then fallback.
func ResolveMessage(err error, fallback string) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}

	var transportErr *model.TransportError
	if errors.As(err, &transportErr) {
		if msg := transportErr.Message(); msg != "" {
			return msg
		}
	}

	return fallback
}

var validationErrors = []error{
	model.ErrMissingName,
	model.ErrUnsupportedScenario,
	model.ErrInvalidInput,
}

func validationMessage(err error, fallback string) string {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return fallback
}
