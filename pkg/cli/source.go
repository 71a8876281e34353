package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/cli/config"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdSource(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "source",
		Usage: "Manage sources",
		Commands: []*cli.Command{
			cmdSourceList(remoteCfg),
			cmdSourceCreate(remoteCfg),
			cmdSourceUpdate(remoteCfg),
			cmdSourceDelete(remoteCfg),
		},
	}
}

func sourceInputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Source name",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "Source type (web, file, notion, slack, api)",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Source description",
		},
		&cli.BoolFlag{
			Name:  "enabled",
			Usage: "Enable ingestion for the source",
		},
		&cli.StringSliceFlag{
			Name:  "config",
			Usage: "Source setting as key=value, repeatable",
		},
	}
}

func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, goerr.New("config must be key=value", goerr.V("config", pair))
		}
		out[k] = v
	}
	return out, nil
}

// sourcePatch parses the attributes given on the command line into a function
// overwriting them on a payload
func sourcePatch(c *cli.Command) (func(*model.SourceInput), error) {
	var sourceType types.SourceType
	if c.IsSet("type") {
		st, err := types.ParseSourceType(c.String("type"))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid source type")
		}
		sourceType = st
	}

	var cfg map[string]string
	if c.IsSet("config") {
		parsed, err := parseKeyValues(c.StringSlice("config"))
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	return func(input *model.SourceInput) {
		if c.IsSet("name") {
			input.Name = c.String("name")
		}
		if c.IsSet("type") {
			input.SourceType = sourceType
		}
		if c.IsSet("description") {
			input.Description = c.String("description")
		}
		if c.IsSet("enabled") {
			input.Enabled = c.Bool("enabled")
		}
		if c.IsSet("config") {
			input.Config = cfg
		}
	}, nil
}

func cmdSourceList(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List sources",
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}

			sources, err := e.console.SourcePanel.Items(ctx)
			if err != nil {
				return err
			}

			t := newTable(e.out, e.colored, "ID", "NAME", "TYPE", "ENABLED", "DOCUMENTS")
			for _, s := range sources {
				t.row(s.ID, s.Name, s.SourceType, s.Enabled, s.DocumentCount)
			}
			return t.flush()
		},
	}
}

func cmdSourceCreate(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a source",
		Flags: sourceInputFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}

			patch, err := sourcePatch(c)
			if err != nil {
				return err
			}
			var input model.SourceInput
			patch(&input)

			created, err := createEntity(ctx, e.console.SourcePanel, input)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.out, created.ID)
			return err
		},
	}
}

func cmdSourceUpdate(remoteCfg *config.Remote) *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "Source ID",
			Required: true,
		},
	}, sourceInputFlags()...)

	return &cli.Command{
		Name:  "update",
		Usage: "Update a source; attributes not given keep their value",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}

			patch, err := sourcePatch(c)
			if err != nil {
				return err
			}
			updated, err := updateEntity(ctx, e.console.SourcePanel, c.String("id"), func(s *model.Source) model.SourceInput {
				input := s.InputOf()
				patch(&input)
				return input
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.out, updated.ID)
			return err
		},
	}
}

func cmdSourceDelete(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a source",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Source ID",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}
			return deleteEntity(ctx, e.console.SourcePanel, c.String("id"))
		},
	}
}
