package analysis

import (
	"strconv"

	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

// IsRewritten reports whether the service replaced the user's query. An absent
// final query is never a rewrite.
func IsRewritten(origin string, final *string) bool {
	return final != nil && *final != origin
}

// Entity is a query entity prepared for display
type Entity struct {
	Name   string
	Type   string
	Weight float64
	// Annotation is set only for entities weighted above 1, e.g. "×3"
	Annotation string
}

// Salient reports whether the entity carries a weight annotation
func (e Entity) Salient() bool {
	return e.Annotation != ""
}

// View is the presentable form of a search analysis
type View struct {
	OriginQuery string
	FinalQuery  string
	Rewritten   bool
	Entities    []Entity

	expanded bool
}

// Expanded reports the disclosure state; a new view starts expanded
func (v *View) Expanded() bool {
	return v.expanded
}

// Toggle flips the disclosure state
func (v *View) Toggle() {
	v.expanded = !v.expanded
}

func annotate(weight float64) string {
	if weight <= 1 {
		return ""
	}
	return "×" + strconv.FormatFloat(weight, 'g', -1, 64)
}

// Present builds a view for a. It returns false when there is nothing to show:
// no rewrite and no entities.
func Present(a *model.SearchAnalysis) (*View, bool) {
	if a == nil {
		return nil, false
	}

	rewritten := IsRewritten(a.OriginQuery, a.FinalQuery)
	if !rewritten && len(a.QueryEntities) == 0 {
		return nil, false
	}

	v := &View{
		OriginQuery: a.OriginQuery,
		Rewritten:   rewritten,
		Entities:    make([]Entity, 0, len(a.QueryEntities)),
		expanded:    true,
	}
	if rewritten {
		v.FinalQuery = *a.FinalQuery
	}

	// extraction order is meaningful, keep it
	for _, qe := range a.QueryEntities {
		v.Entities = append(v.Entities, Entity{
			Name:       qe.Name,
			Type:       qe.Type,
			Weight:     qe.Weight,
			Annotation: annotate(qe.Weight),
		})
	}
	return v, true
}
