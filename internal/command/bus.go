// Package command provides the command-event bus that settings fire into.
//
// A setting carries an optional command ID. When the setting is applied the
// ID is fired on the bus and every subscriber for that ID, plus every
// wildcard subscriber, runs synchronously in the caller's goroutine. Handler
// panics are recovered and reported as errors so that a faulty subscriber
// cannot take the menu down.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID names a command. The zero value means "no command".
type ID string

// None is the empty command.
const None ID = ""

// IsNone reports whether id is the empty command.
func (id ID) IsNone() bool {
	return id == None
}

// Handler reacts to a fired command.
type Handler func(ctx context.Context, id ID) error

type subscription struct {
	id      string
	command ID // None for wildcard
	handler Handler
	order   uint64
}

// Bus dispatches fired commands to subscribers.
type Bus struct {
	mu     sync.RWMutex
	byID   map[string]*subscription
	byCmd  map[ID][]*subscription
	any    []*subscription
	serial uint64

	fired  atomic.Uint64
	failed atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		byID:  make(map[string]*subscription),
		byCmd: make(map[ID][]*subscription),
	}
}

// Subscribe registers h for the command id and returns a subscription ID.
// Subscribing to None receives every command.
func (b *Bus) Subscribe(id ID, h Handler) (string, error) {
	if h == nil {
		return "", ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.serial++
	sub := &subscription{
		id:      uuid.NewString(),
		command: id,
		handler: h,
		order:   b.serial,
	}
	b.byID[sub.id] = sub
	if id.IsNone() {
		b.any = append(b.any, sub)
	} else {
		b.byCmd[id] = append(b.byCmd[id], sub)
	}
	return sub.id, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(subID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.byID[subID]
	if !ok {
		return ErrSubscriptionNotFound
	}
	delete(b.byID, subID)
	if sub.command.IsNone() {
		b.any = remove(b.any, sub)
	} else {
		b.byCmd[sub.command] = remove(b.byCmd[sub.command], sub)
		if len(b.byCmd[sub.command]) == 0 {
			delete(b.byCmd, sub.command)
		}
	}
	return nil
}

// Fire runs every subscriber for id in subscription order. All subscribers
// run even if one fails; the failures are joined into the returned error.
// Firing a command nobody listens to is not an error.
func (b *Bus) Fire(ctx context.Context, id ID) error {
	if id.IsNone() {
		return ErrNoCommand
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.fired.Add(1)

	var errs []error
	for _, sub := range b.snapshot(id) {
		if err := b.call(ctx, sub, id); err != nil {
			b.failed.Add(1)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribers returns the number of subscribers that would receive id.
func (b *Bus) Subscribers(id ID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byCmd[id]) + len(b.any)
}

// Stats returns the number of fired commands and failed handler calls.
func (b *Bus) Stats() (fired, failed uint64) {
	return b.fired.Load(), b.failed.Load()
}

func (b *Bus) snapshot(id ID) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := make([]*subscription, 0, len(b.byCmd[id])+len(b.any))
	subs = append(subs, b.byCmd[id]...)
	subs = append(subs, b.any...)
	sort.Slice(subs, func(i, j int) bool { return subs[i].order < subs[j].order })
	return subs
}

func (b *Bus) call(ctx context.Context, sub *subscription, id ID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{
				SubscriptionID: sub.id,
				Command:        id,
				Err:            fmt.Errorf("%w: %v", ErrHandlerPanic, r),
			}
		}
	}()

	if herr := sub.handler(ctx, id); herr != nil {
		return &HandlerError{SubscriptionID: sub.id, Command: id, Err: herr}
	}
	return nil
}

func remove(subs []*subscription, target *subscription) []*subscription {
	for i, s := range subs {
		if s == target {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}
