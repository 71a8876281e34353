package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/docdesk/pkg/utils/logging"
)

// Close safely closes an io.Closer and logs any errors.
// It handles nil closers gracefully.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Drain reads r to the end so the underlying connection can be reused, then closes it.
func Drain(ctx context.Context, rc io.ReadCloser) {
	if rc == nil {
		return
	}
	if _, err := io.Copy(io.Discard, rc); err != nil {
		logging.From(ctx).Debug("Failed to drain", slog.Any("error", err))
	}
	Close(ctx, rc)
}
