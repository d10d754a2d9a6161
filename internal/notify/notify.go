// Package notify delivers setting change notifications to observers.
//
// Each change names the setting by its path, "Group/Subgroup/name", with
// empty levels omitted. Observers subscribe either to everything or to a
// path prefix: subscribing to "Video" receives "Video/Output/refresh_rate".
package notify

import (
	"sort"
	"strings"
	"sync"
)

// Kind classifies a change.
type Kind int

const (
	// KindSet is a value mutated by an action or typed input.
	KindSet Kind = iota

	// KindReset is a value restored to its default.
	KindReset

	// KindRevert is a value restored to its original snapshot.
	KindRevert

	// KindReload is an external reload; Path is empty.
	KindReload
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindReset:
		return "reset"
	case KindRevert:
		return "revert"
	case KindReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one mutation.
type Change struct {
	Path string
	Kind Kind

	// Old and New are the display strings before and after.
	Old string
	New string

	// Source names the origin, e.g. "left", "text", "plugin".
	Source string
}

// JoinPath builds a change path from its non-empty parts.
func JoinPath(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// Observer receives changes.
type Observer func(Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the observer. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	id       uint64
	prefix   string
	all      bool
	observer Observer
}

// Notifier fans changes out to observers, either inline or from a
// background goroutine.
type Notifier struct {
	mu      sync.RWMutex
	entries []entry
	nextID  uint64
	closed  bool

	async  bool
	buffer chan Change
	done   chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync delivers changes from a goroutine through a buffer of the
// given size. Notify blocks when the buffer is full.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// New creates a Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{done: make(chan struct{})}
	for _, opt := range opts {
		opt(n)
	}
	if n.async {
		n.wg.Add(1)
		go n.run()
	}
	return n
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(o Observer) *Subscription {
	return n.add(entry{all: true, observer: o})
}

// SubscribePath registers an observer for changes at or below prefix.
// Reload changes reach every observer.
func (n *Notifier) SubscribePath(prefix string, o Observer) *Subscription {
	return n.add(entry{prefix: prefix, observer: o})
}

func (n *Notifier) add(e entry) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	e.id = n.nextID
	n.nextID++
	n.entries = append(n.entries, e)
	return &Subscription{id: e.id, notifier: n}
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}

// Notify delivers c. Changes sent after Close are dropped.
func (n *Notifier) Notify(c Change) {
	n.mu.RLock()
	closed := n.closed
	n.mu.RUnlock()
	if closed {
		return
	}

	if n.async {
		select {
		case n.buffer <- c:
		case <-n.done:
		}
		return
	}
	n.deliver(c)
}

// Close stops the notifier, draining buffered changes first.
// It is safe to call more than once.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

func (n *Notifier) deliver(c Change) {
	n.mu.RLock()
	var targets []entry
	for _, e := range n.entries {
		if e.all || c.Kind == KindReload || underPrefix(e.prefix, c.Path) {
			targets = append(targets, e)
		}
	}
	n.mu.RUnlock()

	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })
	for _, e := range targets {
		e.observer(c)
	}
}

func (n *Notifier) run() {
	defer n.wg.Done()

	for {
		select {
		case c := <-n.buffer:
			n.deliver(c)
		case <-n.done:
			for {
				select {
				case c := <-n.buffer:
					n.deliver(c)
				default:
					return
				}
			}
		}
	}
}

// underPrefix reports whether path equals prefix or lies below it.
func underPrefix(prefix, path string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// Batch collects changes and delivers them together on Commit.
type Batch struct {
	mu       sync.Mutex
	notifier *Notifier
	changes  []Change
}

// NewBatch creates an empty batch.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Add queues a change.
func (b *Batch) Add(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, c)
}

// Len returns the number of queued changes.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}

// Commit delivers and clears the queued changes.
func (b *Batch) Commit() {
	b.mu.Lock()
	changes := b.changes
	b.changes = nil
	b.mu.Unlock()

	for _, c := range changes {
		b.notifier.Notify(c)
	}
}

// Discard clears the queued changes without delivering them.
func (b *Batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = nil
}
