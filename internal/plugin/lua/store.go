package lua

import (
	"sort"

	"github.com/dshills/menuconf/internal/input/key"
)

// Store owns the storage of a plugin's settings. Targets handed to the
// registry point into it and stay valid until Release.
type Store struct {
	values map[string]any
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]any)}
}

func slot[T any](st *Store, name string, v T) *T {
	p := new(T)
	*p = v
	st.values[name] = p
	return p
}

// Get returns the current value of name.
func (st *Store) Get(name string) (any, bool) {
	switch p := st.values[name].(type) {
	case *bool:
		return *p, true
	case *int:
		return *p, true
	case *uint:
		return *p, true
	case *uint64:
		return *p, true
	case *float64:
		return *p, true
	case *string:
		return *p, true
	case *key.Binding:
		return *p, true
	}
	return nil, false
}

// Names returns the stored names, sorted.
func (st *Store) Names() []string {
	out := make([]string, 0, len(st.values))
	for name := range st.values {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of stored values.
func (st *Store) Len() int {
	return len(st.values)
}

// Release drops every value.
func (st *Store) Release() {
	clear(st.values)
}
