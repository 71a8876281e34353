package cli

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/cli/config"
	"github.com/secmon-lab/docdesk/pkg/console"
	"github.com/secmon-lab/docdesk/pkg/console/dialog"
	"github.com/secmon-lab/docdesk/pkg/console/notify"
	"github.com/urfave/cli/v3"
)

// env is the console session a command runs in
type env struct {
	console *console.Console
	out     io.Writer
	colored bool
}

func newEnv(ctx context.Context, c *cli.Command, remoteCfg *config.Remote) (*env, error) {
	remote, err := remoteCfg.Configure(ctx)
	if err != nil {
		return nil, err
	}

	root := c.Root()
	colored := !color.NoColor
	notifier := notify.Multi{
		notify.NewPrinter(root.ErrWriter, colored),
		notify.NewLogger(),
	}

	return &env{
		console: console.New(remote, notifier),
		out:     root.Writer,
		colored: colored,
	}, nil
}

// updateEntity runs an edit dialog on the entity with id, submitting the payload
// built from its current attributes
func updateEntity[T dialog.Entity, P any](ctx context.Context, panel *console.Panel[T, P], id string, edit func(T) P) (T, error) {
	var zero T
	target, err := panel.Find(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := panel.Edit(target); err != nil {
		return zero, goerr.Wrap(err, "failed to open edit dialog")
	}
	defer panel.Cancel()

	return panel.Submit(ctx, edit(target))
}

// deleteEntity confirms a delete dialog on the entity with id
func deleteEntity[T dialog.Entity, P any](ctx context.Context, panel *console.Panel[T, P], id string) error {
	target, err := panel.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := panel.ConfirmDelete(target); err != nil {
		return goerr.Wrap(err, "failed to open delete dialog")
	}
	defer panel.Cancel()

	return panel.Delete(ctx)
}

// createEntity submits a create dialog
func createEntity[T dialog.Entity, P any](ctx context.Context, panel *console.Panel[T, P], input P) (T, error) {
	var zero T
	if err := panel.New(); err != nil {
		return zero, goerr.Wrap(err, "failed to open create dialog")
	}
	defer panel.Cancel()

	return panel.Submit(ctx, input)
}
