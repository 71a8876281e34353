package analysis

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
)

// Renderer writes analysis views to a terminal
type Renderer struct {
	w       io.Writer
	colored bool
}

// NewRenderer creates a renderer writing to w. Colors are emitted only when colored is true.
func NewRenderer(w io.Writer, colored bool) *Renderer {
	return &Renderer{w: w, colored: colored}
}

func (r *Renderer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Render writes v. A nil view writes nothing.
func (r *Renderer) Render(v *View) error {
	if v == nil {
		return nil
	}

	header := r.paint(color.FgCyan, color.Bold)
	marker := "▾"
	if !v.Expanded() {
		marker = "▸"
	}
	if _, err := header.Fprintf(r.w, "%s AI analysis\n", marker); err != nil {
		return goerr.Wrap(err, "failed to write analysis header")
	}
	if !v.Expanded() {
		return nil
	}

	if v.Rewritten {
		dim := r.paint(color.Faint)
		if _, err := fmt.Fprintf(r.w, "  query: %s → %s\n", dim.Sprint(v.OriginQuery), v.FinalQuery); err != nil {
			return goerr.Wrap(err, "failed to write rewritten query")
		}
	}

	if len(v.Entities) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(r.w, "  entities:"); err != nil {
		return goerr.Wrap(err, "failed to write entities")
	}

	salient := r.paint(color.FgYellow, color.Bold)
	for _, e := range v.Entities {
		line := "    - " + e.Name
		if e.Type != "" {
			line += " (" + e.Type + ")"
		}
		if e.Salient() {
			line += " " + salient.Sprint(e.Annotation)
		}
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return goerr.Wrap(err, "failed to write entity")
		}
	}
	return nil
}
