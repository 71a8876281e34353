package errutil_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/docdesk/pkg/utils/errutil"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
)

func newCtx(buf *bytes.Buffer) context.Context {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	return logging.With(context.Background(), logger)
}

func TestHandle(t *testing.T) {
	t.Run("nil error is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, errutil.Handle(newCtx(&buf), nil, "unused"))
		gt.Number(t, buf.Len()).Equal(0)
	})

	t.Run("goerr values are logged", func(t *testing.T) {
		var buf bytes.Buffer
		err := goerr.New("broken", goerr.V("source_id", "src-1"))

		got := errutil.Handle(newCtx(&buf), err, "operation failed")
		gt.Error(t, got).Is(err)
		gt.String(t, buf.String()).Contains("operation failed")
		gt.String(t, buf.String()).Contains("src-1")
	})

	t.Run("plain error is logged", func(t *testing.T) {
		var buf bytes.Buffer
		errutil.Handle(newCtx(&buf), errors.New("plain"), "operation failed")
		gt.String(t, buf.String()).Contains("plain")
	})
}

func TestReport_WithoutSentryClient(t *testing.T) {
	var buf bytes.Buffer
	err := goerr.New("no selection")

	got := errutil.Report(newCtx(&buf), err, "precondition violated")
	gt.Error(t, got).Is(err)
	gt.String(t, buf.String()).Contains("precondition violated")
}
