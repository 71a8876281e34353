package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/cli/config"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdModel(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "model",
		Usage: "Manage LLM and embedding model configs",
		Commands: []*cli.Command{
			cmdModelList(remoteCfg),
			cmdModelCreate(remoteCfg),
			cmdModelUpdate(remoteCfg),
			cmdModelDelete(remoteCfg),
		},
	}
}

func modelInputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Config name",
		},
		&cli.StringFlag{
			Name:  "kind",
			Usage: "Model kind (llm, embedding)",
		},
		&cli.StringFlag{
			Name:  "scenario",
			Usage: "Usage scenario (general, extract, search, chat, summary); embedding supports general only",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Model provider",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model name at the provider",
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "Base URL of the model provider API",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key of the model provider",
			Sources: cli.EnvVars("DOCDESK_MODEL_API_KEY"),
		},
		&cli.BoolFlag{
			Name:  "default",
			Usage: "Use as default for its kind and scenario",
		},
	}
}

// modelPatch parses the attributes given on the command line into a function
// overwriting them on a payload
func modelPatch(c *cli.Command) (func(*model.ModelConfigInput), error) {
	var kind types.ModelKind
	if c.IsSet("kind") {
		k, err := types.ParseModelKind(c.String("kind"))
		if err != nil {
			return nil, err
		}
		kind = k
	}

	var scenario types.Scenario
	if c.IsSet("scenario") {
		s, err := types.ParseScenario(c.String("scenario"))
		if err != nil {
			return nil, err
		}
		scenario = s
	}

	return func(input *model.ModelConfigInput) {
		if c.IsSet("name") {
			input.Name = c.String("name")
		}
		if c.IsSet("kind") {
			input.Kind = kind
		}
		if c.IsSet("scenario") {
			input.Scenario = scenario
		}
		if c.IsSet("provider") {
			input.Provider = c.String("provider")
		}
		if c.IsSet("model") {
			input.Model = c.String("model")
		}
		if c.IsSet("endpoint") {
			input.BaseURL = c.String("endpoint")
		}
		if c.IsSet("api-key") {
			input.APIKey = c.String("api-key")
		}
		if c.IsSet("default") {
			input.IsDefault = c.Bool("default")
		}
	}, nil
}

func cmdModelList(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List model configs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Filter key: all, <kind> or <kind>:<scenario> (e.g. llm:chat)",
				Value: "all",
			},
			&cli.BoolFlag{
				Name:  "counts",
				Usage: "Print the filter menu with counts instead of configs",
			},
			&cli.BoolFlag{
				Name:  "hide-empty",
				Usage: "Omit scenario rows without configs from the filter menu",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}
			panel := e.console.ModelPanel

			if c.Bool("counts") {
				rows, err := panel.Rows(ctx, c.Bool("hide-empty"))
				if err != nil {
					return err
				}
				return printFilterRows(e.out, e.colored, rows)
			}

			configs, _, err := panel.Filter(ctx, c.String("filter"))
			if err != nil {
				return goerr.Wrap(err, "failed to filter model configs")
			}

			t := newTable(e.out, e.colored, "ID", "NAME", "KIND", "SCENARIO", "PROVIDER", "MODEL", "DEFAULT")
			for _, m := range configs {
				t.row(m.ID, m.Name, m.Kind, m.Scenario, m.Provider, m.Model, m.IsDefault)
			}
			return t.flush()
		},
	}
}

func printFilterRows(w io.Writer, colored bool, rows []model.FilterRow) error {
	t := newTable(w, colored, "FILTER", "COUNT")
	for _, row := range rows {
		t.row(strings.Repeat("  ", row.Depth)+row.Key, row.Count)
	}
	return t.flush()
}

func cmdModelCreate(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a model config",
		Flags: modelInputFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}

			patch, err := modelPatch(c)
			if err != nil {
				return err
			}
			var input model.ModelConfigInput
			patch(&input)

			created, err := createEntity(ctx, e.console.ModelPanel.Panel, input)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.out, created.ID)
			return err
		},
	}
}

func cmdModelUpdate(remoteCfg *config.Remote) *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "Model config ID",
			Required: true,
		},
	}, modelInputFlags()...)

	return &cli.Command{
		Name:  "update",
		Usage: "Update a model config; attributes not given keep their value",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}

			patch, err := modelPatch(c)
			if err != nil {
				return err
			}
			updated, err := updateEntity(ctx, e.console.ModelPanel.Panel, c.String("id"), func(m *model.ModelConfig) model.ModelConfigInput {
				input := m.InputOf()
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

func cmdModelDelete(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a model config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Model config ID",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}
			return deleteEntity(ctx, e.console.ModelPanel.Panel, c.String("id"))
		},
	}
}
