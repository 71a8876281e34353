package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Ladicle/tabwriter"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
)

// table writes aligned columns; the header is highlighted when colors are enabled
type table struct {
	tw     *tabwriter.Writer
	header *color.Color
}

func newTable(w io.Writer, colored bool, columns ...string) *table {
	header := color.New(color.Bold)
	if colored {
		header.EnableColor()
	} else {
		header.DisableColor()
	}

	t := &table{
		tw:     tabwriter.NewWriter(w, 0, 8, 2, ' ', 0),
		header: header,
	}
	_, _ = fmt.Fprintln(t.tw, header.Sprint(strings.Join(columns, "\t")))
	return t
}

func (t *table) row(values ...any) {
	cells := make([]string, 0, len(values))
	for _, v := range values {
		cells = append(cells, fmt.Sprint(v))
	}
	_, _ = fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	if err := t.tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write table")
	}
	return nil
}
