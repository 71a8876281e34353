package expansion

import (
	"maps"
	"slices"
	"unicode/utf8"
)

// Threshold is the content length, in characters, above which an item can be collapsed
const Threshold = 500

// Expandable reports whether content is long enough to be offered expansion.
// Shorter content is always rendered in full.
func Expandable(content string) bool {
	return utf8.RuneCountInString(content) > Threshold
}

// Set is an immutable set of expanded item IDs. The zero value is empty and
// ready to use; every mutation returns a new Set.
type Set struct {
	ids map[string]struct{}
}

// Of returns a set containing ids
func Of(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s Set) clone() Set {
	out := Set{ids: make(map[string]struct{}, len(s.ids)+1)}
	maps.Copy(out.ids, s.ids)
	return out
}

// Has reports whether id is expanded
func (s Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of expanded items
func (s Set) Len() int {
	return len(s.ids)
}

// Add returns a set with id expanded
func (s Set) Add(id string) Set {
	if s.Has(id) {
		return s
	}
	out := s.clone()
	out.ids[id] = struct{}{}
	return out
}

// Remove returns a set with id collapsed
func (s Set) Remove(id string) Set {
	if !s.Has(id) {
		return s
	}
	out := s.clone()
	delete(out.ids, id)
	return out
}

// Toggle flips the membership of id. Toggling twice yields an equal set.
func (s Set) Toggle(id string) Set {
	if s.Has(id) {
		return s.Remove(id)
	}
	return s.Add(id)
}

// IDs returns the members in sorted order
func (s Set) IDs() []string {
	return slices.Sorted(maps.Keys(s.ids))
}

// Equal reports whether both sets hold the same members
func (s Set) Equal(other Set) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
