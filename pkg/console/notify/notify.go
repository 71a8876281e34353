package notify

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/fatih/color"
	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
)

// Recorder keeps every notification in memory. It backs tests and the CLI exit status.
type Recorder struct {
	mu     sync.Mutex
	events []model.Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, n)
}

// Events returns every notification received so far
func (r *Recorder) Events() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Messages returns the messages of the given kind in arrival order
func (r *Recorder) Messages(kind model.NotificationKind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev.Message)
		}
	}
	return out
}

// Last returns the most recent notification
func (r *Recorder) Last() (model.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return model.Notification{}, false
	}
	return r.events[len(r.events)-1], true
}

// Logger writes notifications to the context logger
type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Notify(ctx context.Context, n model.Notification) {
	logger := logging.From(ctx)
	switch n.Kind {
	case model.NotificationError:
		logger.Warn("notification", "kind", string(n.Kind), "message", n.Message)
	default:
		logger.Info("notification", "kind", string(n.Kind), "message", n.Message)
	}
}

// Printer writes notifications to a terminal as colored status lines
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	success *color.Color
	failure *color.Color
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, colored bool) *Printer {
	success := color.New(color.FgGreen)
	failure := color.New(color.FgRed, color.Bold)
	if colored {
		success.EnableColor()
		failure.EnableColor()
	} else {
		success.DisableColor()
		failure.DisableColor()
	}
	return &Printer{w: w, success: success, failure: failure}
}

func (p *Printer) Notify(_ context.Context, n model.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch n.Kind {
	case model.NotificationError:
		_, _ = p.failure.Fprint(p.w, "✗ ")
	default:
		_, _ = p.success.Fprint(p.w, "✓ ")
	}
	_, _ = fmt.Fprintln(p.w, n.Message)
}

// Multi fans a notification out to several notifiers
type Multi []interfaces.Notifier

func (m Multi) Notify(ctx context.Context, n model.Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}

var (
	_ interfaces.Notifier = (*Recorder)(nil)
	_ interfaces.Notifier = (*Logger)(nil)
	_ interfaces.Notifier = (*Printer)(nil)
	_ interfaces.Notifier = Multi(nil)
)
