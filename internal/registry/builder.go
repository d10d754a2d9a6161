// Package registry builds and queries the ordered table of settings.
//
// A Builder appends entries into a growable backing store, tracks the
// current group and subgroup, and wires every entry with its kind's
// default navigation actions. Build runs a list of independent sections
// against one builder and either returns a finished Registry terminated by
// a single Terminal entry, or fails as a whole and releases everything
// appended so far.
//
// Entries are stored by pointer, so the handle returned from Append stays
// valid when the store grows.
package registry

import (
	"fmt"

	"github.com/dshills/menuconf/internal/dispatch"
	"github.com/dshills/menuconf/internal/setting"
)

// DefaultCapacity is the initial size of the backing store.
const DefaultCapacity = 32

// Section declares a run of entries. Sections are independent of each
// other and run in order.
type Section func(b *Builder) error

// Option configures a Builder.
type Option func(*Builder)

// WithAllocator replaces the heap allocator.
func WithAllocator(a Allocator) Option {
	return func(b *Builder) {
		b.alloc = a
	}
}

// WithCapacity sets the initial capacity of the backing store.
func WithCapacity(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.initial = n
		}
	}
}

// Builder accumulates entries for a Registry.
type Builder struct {
	env     *setting.Env
	alloc   Allocator
	initial int
	entries []*setting.Setting
	names   map[string]struct{}
	closers []func()

	group        string
	subgroup     string
	parent       string
	groupOpen    bool
	subgroupOpen bool

	index       int
	indexOffset int
	owned       bool

	err  error
	done bool
}

// NewBuilder creates a builder resolving labels and collaborators through
// env.
func NewBuilder(env *setting.Env, opts ...Option) *Builder {
	if env == nil {
		env = &setting.Env{}
	}
	b := &Builder{
		env:     env,
		alloc:   HeapAllocator{},
		initial: DefaultCapacity,
		names:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Env returns the builder's environment.
func (b *Builder) Env() *setting.Env {
	return b.env
}

// Len returns the number of entries appended so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Group returns the name of the open group, or "".
func (b *Builder) Group() string {
	return b.group
}

// Subgroup returns the name of the open subgroup, or "".
func (b *Builder) Subgroup() string {
	return b.subgroup
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}

// fail records the first error and returns it.
func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

// Append copies s into the store and returns a handle to the stored entry.
// A full store is grown to twice its capacity.
func (b *Builder) Append(s setting.Setting) (*setting.Setting, error) {
	if b.done {
		return nil, ErrBuilderDone
	}
	if b.err != nil {
		return nil, b.err
	}
	if err := s.Validate(); err != nil {
		return nil, b.fail(err)
	}
	if s.Kind.Findable() && s.Name != "" {
		if _, dup := b.names[s.Name]; dup {
			return nil, b.fail(fmt.Errorf("%w: %q", ErrDuplicate, s.Name))
		}
	}

	if len(b.entries) == cap(b.entries) {
		capacity := cap(b.entries) * 2
		if capacity == 0 {
			capacity = b.initial
		}
		grown, err := b.alloc.Grow(b.entries, capacity)
		if err != nil {
			return nil, b.fail(fmt.Errorf("append %q: %w", s.Name, err))
		}
		b.entries = grown
	}

	entry := &s
	b.entries = append(b.entries, entry)
	if s.Kind.Findable() && s.Name != "" {
		b.names[s.Name] = struct{}{}
	}
	return entry, nil
}

// StartGroup opens a group. Groups do not nest.
func (b *Builder) StartGroup(name, parent string) error {
	if b.groupOpen {
		return b.fail(&NestingError{Op: "StartGroup", Name: name, Reason: fmt.Sprintf("group %q still open", b.group)})
	}
	if _, err := b.Append(setting.Setting{Kind: setting.Group, Name: name, Label: b.env.Text(name), Group: name, ParentGroup: parent}); err != nil {
		return err
	}
	b.group, b.parent, b.groupOpen = name, parent, true
	return nil
}

// EndGroup closes the open group. Any subgroup must be closed first.
func (b *Builder) EndGroup(parent string) error {
	switch {
	case !b.groupOpen:
		return b.fail(&NestingError{Op: "EndGroup", Reason: "no open group"})
	case b.subgroupOpen:
		return b.fail(&NestingError{Op: "EndGroup", Name: b.group, Reason: fmt.Sprintf("subgroup %q still open", b.subgroup)})
	}
	if _, err := b.Append(setting.Setting{Kind: setting.EndGroup, Group: b.group, ParentGroup: parent}); err != nil {
		return err
	}
	b.group, b.parent, b.groupOpen = "", "", false
	return nil
}

// StartSubgroup opens a subgroup inside the open group.
func (b *Builder) StartSubgroup(name, parent string) error {
	switch {
	case !b.groupOpen:
		return b.fail(&NestingError{Op: "StartSubgroup", Name: name, Reason: "no open group"})
	case b.subgroupOpen:
		return b.fail(&NestingError{Op: "StartSubgroup", Name: name, Reason: fmt.Sprintf("subgroup %q still open", b.subgroup)})
	}
	if _, err := b.Append(setting.Setting{Kind: setting.Subgroup, Name: name, Label: b.env.Text(name), Group: b.group, Subgroup: name, ParentGroup: parent}); err != nil {
		return err
	}
	b.subgroup, b.subgroupOpen = name, true
	return nil
}

// EndSubgroup closes the open subgroup.
func (b *Builder) EndSubgroup(parent string) error {
	if !b.subgroupOpen {
		return b.fail(&NestingError{Op: "EndSubgroup", Reason: "no open subgroup"})
	}
	if _, err := b.Append(setting.Setting{Kind: setting.EndSubgroup, Group: b.group, Subgroup: b.subgroup, ParentGroup: parent}); err != nil {
		return err
	}
	b.subgroup, b.subgroupOpen = "", false
	return nil
}

// Template runs fn once per instance with Index set to i+1 and
// IndexOffset set to i on every entry it declares.
func (b *Builder) Template(count int, fn func(b *Builder, i int) error) error {
	defer func() { b.index, b.indexOffset = 0, 0 }()
	for i := range count {
		b.index, b.indexOffset = i+1, i
		if err := fn(b, i); err != nil {
			return b.fail(err)
		}
	}
	return nil
}

// Owned runs fn with every declared entry marked as owned by the registry.
// release, if non-nil, is called when the registry is closed or the build
// fails.
func (b *Builder) Owned(release func(), fn Section) error {
	if release != nil {
		b.closers = append(b.closers, release)
	}
	b.owned = true
	defer func() { b.owned = false }()
	if err := fn(b); err != nil {
		return b.fail(err)
	}
	return nil
}

// OnClose registers a function to run when the registry is closed.
func (b *Builder) OnClose(fn func()) {
	if fn != nil {
		b.closers = append(b.closers, fn)
	}
}

// Build runs sections in order and finishes the registry.
func (b *Builder) Build(sections ...Section) (*Registry, error) {
	if b.done {
		return nil, ErrBuilderDone
	}
	logger := b.env.Log().WithPrefix("registry")

	for i, sec := range sections {
		if sec == nil {
			continue
		}
		if err := sec(b); err != nil {
			b.fail(fmt.Errorf("section %d: %w", i, err))
			break
		}
		if b.err != nil {
			break
		}
	}
	if b.err == nil {
		switch {
		case b.subgroupOpen:
			b.fail(&NestingError{Op: "Build", Name: b.subgroup, Reason: "subgroup not closed"})
		case b.groupOpen:
			b.fail(&NestingError{Op: "Build", Name: b.group, Reason: "group not closed"})
		}
	}
	if b.err == nil {
		b.Append(setting.Setting{Kind: setting.Terminal})
	}

	if b.err != nil {
		err := b.err
		b.release()
		logger.Error("build failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	entries := make([]*setting.Setting, len(b.entries))
	copy(entries, b.entries)
	reg := &Registry{env: b.env, entries: entries, closers: b.closers}
	b.entries, b.closers, b.done = nil, nil, true

	logger.Debug("built", "entries", len(entries)-1, "groups", len(reg.Groups()))
	return reg, nil
}

func (b *Builder) release() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	clear(b.entries)
	b.entries, b.closers, b.names = nil, nil, nil
	b.done = true
}

// Build builds a registry from sections with a default builder.
func Build(env *setting.Env, sections ...Section) (*Registry, error) {
	return NewBuilder(env).Build(sections...)
}

// base fills the fields every factory shares.
func (b *Builder) base(kind setting.Kind, d Decl, v setting.Value) setting.Setting {
	labelID := d.Label
	if labelID == "" {
		labelID = d.Name
	}
	return setting.Setting{
		Kind:        kind,
		Name:        d.Name,
		LabelID:     labelID,
		Label:       b.env.Text(labelID),
		Description: b.env.Text(d.Description),
		Group:       b.group,
		Subgroup:    b.subgroup,
		ParentGroup: b.parent,
		Value:       v,
		Flags:       d.Flags,
		OnChange:    d.OnChange,
		OnRead:      d.OnRead,
		Stringify:   d.Stringify,
		Actions:     d.Actions,
		Command:     setting.CommandTrigger{ID: d.Command},
		Index:       b.index,
		IndexOffset: b.indexOffset,
		Owned:       b.owned,
	}
}

// add wires default actions under the declared overrides and appends.
func (b *Builder) add(s setting.Setting) (*setting.Setting, error) {
	s.Actions.Merge(dispatch.Defaults(&s))
	entry, err := b.Append(s)
	if err != nil {
		return nil, err
	}
	b.env.Log().Debug("declared", "setting", entry.Path(), "kind", entry.Kind)
	return entry, nil
}
