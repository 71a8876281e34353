package notify_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/docdesk/pkg/console/notify"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
)

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	r := notify.NewRecorder()

	_, ok := r.Last()
	gt.Bool(t, ok).False()

	r.Notify(ctx, model.NewSuccess("source created"))
	r.Notify(ctx, model.NewError("in use"))
	r.Notify(ctx, model.NewSuccess("source deleted"))

	gt.Array(t, r.Events()).Length(3)
	gt.Array(t, r.Messages(model.NotificationSuccess)).Equal([]string{"source created", "source deleted"})
	gt.Array(t, r.Messages(model.NotificationError)).Equal([]string{"in use"})

	last, ok := r.Last()
	gt.Bool(t, ok).True()
	gt.Value(t, last.Message).Equal("source deleted")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := notify.NewPrinter(&buf, false)

	p.Notify(context.Background(), model.NewSuccess("source created"))
	p.Notify(context.Background(), model.NewError("in use"))

	gt.Value(t, buf.String()).Equal("✓ source created\n✗ in use\n")
}

func TestMultiAndLogger(t *testing.T) {
	var logBuf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&logBuf, nil)))

	r1 := notify.NewRecorder()
	r2 := notify.NewRecorder()
	m := notify.Multi{r1, r2, notify.NewLogger()}
	m.Notify(ctx, model.NewError("failed to create source"))

	gt.Array(t, r1.Messages(model.NotificationError)).Equal([]string{"failed to create source"})
	gt.Array(t, r2.Messages(model.NotificationError)).Equal([]string{"failed to create source"})
	gt.String(t, logBuf.String()).Contains(`"message":"failed to create source"`)
	gt.String(t, logBuf.String()).Contains(`"level":"WARN"`)
}
