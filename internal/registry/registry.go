package registry

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/dshills/menuconf/internal/setting"
)

// Registry is a finished, ordered table of settings ending in a single
// Terminal entry. It is not safe for concurrent use.
type Registry struct {
	env     *setting.Env
	entries []*setting.Setting
	closers []func()
	closed  bool
}

// Env returns the environment the registry was built with.
func (r *Registry) Env() *setting.Env {
	return r.env
}

// Len returns the number of entries before the Terminal.
func (r *Registry) Len() int {
	n := 0
	for range r.Entries() {
		n++
	}
	return n
}

// Entries iterates over all entries, structural markers included, stopping
// at the Terminal.
func (r *Registry) Entries() iter.Seq[*setting.Setting] {
	return func(yield func(*setting.Setting) bool) {
		for _, s := range r.entries {
			if s.Kind == setting.Terminal {
				return
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Find returns the first findable entry named name, or nil.
func (r *Registry) Find(name string) *setting.Setting {
	if name == "" {
		return nil
	}
	for s := range r.Entries() {
		if s.Kind.Findable() && s.Name == name {
			return s
		}
	}
	return nil
}

// FindID returns the first findable entry whose label id is id, or nil.
func (r *Registry) FindID(id string) *setting.Setting {
	if id == "" {
		return nil
	}
	for s := range r.Entries() {
		if s.Kind.Findable() && s.LabelID == id {
			return s
		}
	}
	return nil
}

// Groups returns group names in declaration order.
func (r *Registry) Groups() []string {
	var out []string
	for s := range r.Entries() {
		if s.Kind == setting.Group {
			out = append(out, s.Name)
		}
	}
	return out
}

// Subgroups returns the subgroup names of group in declaration order.
func (r *Registry) Subgroups(group string) []string {
	var out []string
	for s := range r.Entries() {
		if s.Kind == setting.Subgroup && s.Group == group {
			out = append(out, s.Name)
		}
	}
	return out
}

// Children returns the value entries declared directly in group and
// subgroup. An empty subgroup selects entries outside any subgroup.
func (r *Registry) Children(group, subgroup string) []*setting.Setting {
	var out []*setting.Setting
	for s := range r.Entries() {
		if s.Kind.IsStructural() {
			continue
		}
		if s.Group == group && s.Subgroup == subgroup {
			out = append(out, s)
		}
	}
	return out
}

// Search returns value entries whose name, label or description contains
// query, ignoring case, sorted by path.
func (r *Registry) Search(query string) []*setting.Setting {
	query = strings.ToLower(query)
	var result []*setting.Setting

	for s := range r.Entries() {
		if !s.Kind.IsStructural() && matchesSetting(s, query) {
			result = append(result, s)
		}
	}

	slices.SortStableFunc(result, func(a, b *setting.Setting) int {
		return strings.Compare(a.Path(), b.Path())
	})
	return result
}

func matchesSetting(s *setting.Setting, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), query) ||
		strings.Contains(strings.ToLower(s.Label), query) ||
		strings.Contains(strings.ToLower(s.Description), query)
}

// Modified returns the value entries whose value differs from the default.
func (r *Registry) Modified() []*setting.Setting {
	var out []*setting.Setting
	for s := range r.Entries() {
		if !s.Kind.IsStructural() && setting.Modified(s) {
			out = append(out, s)
		}
	}
	return out
}

// Pending returns entries with a raised command trigger.
func (r *Registry) Pending() []*setting.Setting {
	var out []*setting.Setting
	for s := range r.Entries() {
		if s.Command.Triggered {
			out = append(out, s)
		}
	}
	return out
}

// FlushTriggers fires each raised trigger once through sink, or through
// the environment's command sink when sink is nil. Deferred entries run
// their change handler first.
func (r *Registry) FlushTriggers(ctx context.Context, sink setting.CommandSink) error {
	var errs []error
	for _, s := range r.Pending() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if s.Flags.Has(setting.FlagDeferred) && s.OnChange != nil {
			s.OnChange(s)
		}
		id, ok := s.TakeTrigger()
		if !ok {
			continue
		}
		var err error
		if sink != nil {
			err = sink.Fire(ctx, id)
		} else {
			err = r.env.Fire(ctx, id)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close runs release functions in reverse order, clears owned entries and
// empties the registry. Closing twice is a no-op.
func (r *Registry) Close() {
	if r.closed {
		return
	}
	r.closed = true
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	for _, s := range r.entries {
		if s.Owned {
			*s = setting.Setting{Kind: setting.Terminal}
		}
	}
	clear(r.entries)
	r.entries = []*setting.Setting{{Kind: setting.Terminal}}
	r.closers = nil
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	return r.closed
}
