package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdSections(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "sections",
		Usage: "Show the sections of an article",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "article",
				Usage:    "Article ID",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "expand",
				Usage: "Section ID to show in full, repeatable",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}

			drawer := e.console.OpenSections(ctx, c.String("article"))
			defer drawer.Close()

			sections, err := drawer.Sections(ctx)
			if err != nil {
				return err
			}

			expand := make(map[string]struct{})
			for _, id := range c.StringSlice("expand") {
				expand[id] = struct{}{}
			}
			for _, s := range sections {
				if _, ok := expand[s.EntityID()]; ok {
					drawer.Toggle(s)
				}
			}

			heading := color.New(color.FgCyan, color.Bold)
			meta := color.New(color.Faint)
			if e.colored {
				heading.EnableColor()
				meta.EnableColor()
			} else {
				heading.DisableColor()
				meta.DisableColor()
			}

			for _, s := range sections {
				title := s.Title()
				if title == "" {
					title = "(untitled)"
				}
				label := fmt.Sprintf("[%d] %s", s.Rank, s.ID)
				if typ := s.Type(); typ != "" {
					label += " " + typ
				}
				if !drawer.IsExpanded(s) {
					label += " (collapsed)"
				}

				if _, err := fmt.Fprintf(e.out, "%s %s\n%s\n\n", heading.Sprint(title), meta.Sprint(label), drawer.Preview(s)); err != nil {
					return goerr.Wrap(err, "failed to write section")
				}
			}
			return nil
		},
	}
}
