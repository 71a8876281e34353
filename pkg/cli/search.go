package cli

import (
	"context"

	"github.com/secmon-lab/docdesk/pkg/cli/config"
	"github.com/secmon-lab/docdesk/pkg/console/analysis"
	"github.com/urfave/cli/v3"
)

func cmdSearch(remoteCfg *config.Remote) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search documents and show the query analysis",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Search query",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "collapse-analysis",
				Usage: "Show only the analysis header",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := newEnv(ctx, c, remoteCfg)
			if err != nil {
				return err
			}

			result, err := e.console.Analyze(ctx, c.String("query"))
			if err != nil {
				return err
			}

			if result.View != nil {
				if c.Bool("collapse-analysis") {
					result.View.Toggle()
				}
				if err := analysis.NewRenderer(e.out, e.colored).Render(result.View); err != nil {
					return err
				}
			}

			t := newTable(e.out, e.colored, "SCORE", "DOCUMENT", "TITLE", "SNIPPET")
			for _, hit := range result.Hits {
				t.row(hit.Score, hit.DocumentID, hit.Title, hit.Snippet)
			}
			return t.flush()
		},
	}
}
