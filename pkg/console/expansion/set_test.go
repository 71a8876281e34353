package expansion_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/docdesk/pkg/console/expansion"
)

func TestToggleIsIdempotent(t *testing.T) {
	testCases := []struct {
		name string
		set  expansion.Set
		id   string
	}{
		{name: "empty set", set: expansion.Set{}, id: "s1"},
		{name: "member", set: expansion.Of("s1", "s2"), id: "s1"},
		{name: "non member", set: expansion.Of("s1", "s2"), id: "s3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			once := tc.set.Toggle(tc.id)
			gt.Value(t, once.Has(tc.id)).Equal(!tc.set.Has(tc.id))

			twice := once.Toggle(tc.id)
			gt.Bool(t, twice.Equal(tc.set)).True()
			gt.Array(t, twice.IDs()).Equal(tc.set.IDs())
		})
	}
}

func TestSetIsImmutable(t *testing.T) {
	base := expansion.Of("a")

	added := base.Add("b")
	gt.Bool(t, base.Has("b")).False()
	gt.Array(t, added.IDs()).Equal([]string{"a", "b"})

	removed := added.Remove("a")
	gt.Bool(t, added.Has("a")).True()
	gt.Array(t, removed.IDs()).Equal([]string{"b"})

	gt.Number(t, base.Add("a").Len()).Equal(1)
	gt.Number(t, base.Remove("missing").Len()).Equal(1)
}

func TestExpandable(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "empty", content: "", want: false},
		{name: "at threshold", content: strings.Repeat("a", 500), want: false},
		{name: "over threshold", content: strings.Repeat("a", 501), want: true},
		{name: "multibyte at threshold", content: strings.Repeat("文", 500), want: false},
		{name: "multibyte over threshold", content: strings.Repeat("文", 501), want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, expansion.Expandable(tc.content)).Equal(tc.want)
		})
	}
}
