package cache

import "strings"

// Key identifies a cached collection: an entity kind, optionally parameterized
// (for example the sections of one article).
type Key struct {
	Kind  string
	Param string
}

// NewKey builds a key for kind with an optional parameter
func NewKey(kind string, param ...string) Key {
	return Key{Kind: kind, Param: strings.Join(param, "/")}
}

func (k Key) String() string {
	if k.Param == "" {
		return k.Kind
	}
	return k.Kind + "/" + k.Param
}
