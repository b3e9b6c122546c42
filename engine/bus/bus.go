// Package bus implements the synchronous publish/subscribe event bus.
//
// Dispatch is single-threaded and depth-first: publishing from inside a
// handler re-enters Publish and completes before the outer call returns.
// Handlers for a tag fire in subscription order. A handler error aborts the
// remaining handlers for that publish call and propagates to the caller —
// fail-fast so integration bugs surface instead of being swallowed.
package bus

import "reflect"

// Event is an immutable, typed record published on the bus. Tag returns the
// event's unique type tag (exact-tag matching, no inheritance); ScriptData
// exports the event's typed fields for script trigger filtering. Each event
// type builds its map explicitly from its own fields.
type Event interface {
	Tag() string
	ScriptData() map[string]any
}

// Handler receives a published event. Returning a non-nil error aborts the
// remaining handlers for that publish call.
type Handler func(Event) error

// wildcard is the internal tag for SubscribeAll subscriptions.
const wildcard = "*"

type subscription struct {
	owner any
	fn    Handler
}

// Bus is the central event dispatcher. The zero value is not usable; use New.
// Not safe for concurrent use: all calls must happen on the tick thread.
type Bus struct {
	subs map[string][]subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: map[string][]subscription{}}
}

// Subscribe appends h to the handler list for tag. The same handler may be
// subscribed multiple times and is invoked once per subscription.
func (b *Bus) Subscribe(tag string, h Handler) {
	b.subs[tag] = append(b.subs[tag], subscription{fn: h})
}

// SubscribeOwned is Subscribe with an owner recorded for the subscription,
// allowing bulk removal via UnregisterAll during component teardown.
func (b *Bus) SubscribeOwned(owner any, tag string, h Handler) {
	b.subs[tag] = append(b.subs[tag], subscription{owner: owner, fn: h})
}

// SubscribeAll registers a wildcard handler invoked for every published
// event, after that event's exact-tag handlers. This is how a generic
// dispatcher (e.g. the script manager) observes all event categories.
func (b *Bus) SubscribeAll(owner any, h Handler) {
	b.subs[wildcard] = append(b.subs[wildcard], subscription{owner: owner, fn: h})
}

// Unsubscribe removes all occurrences of h from tag's handler list.
// Handlers are compared by code pointer, so the same named function
// unsubscribes regardless of which expression produced it — but the code
// pointer does not distinguish receivers: method values on different
// instances, and closures built from the same function literal, all compare
// equal and are removed together. Components that need per-instance removal
// subscribe with SubscribeOwned and tear down via UnregisterAll.
// Unsubscribing a handler that was never subscribed is a no-op.
func (b *Bus) Unsubscribe(tag string, h Handler) {
	ptr := reflect.ValueOf(h).Pointer()
	kept := b.subs[tag][:0]
	for _, s := range b.subs[tag] {
		if reflect.ValueOf(s.fn).Pointer() != ptr {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.subs, tag)
		return
	}
	b.subs[tag] = kept
}

// UnregisterAll removes every subscription made with the given owner, across
// all tags (wildcard included).
func (b *Bus) UnregisterAll(owner any) {
	for tag, subs := range b.subs {
		kept := subs[:0]
		for _, s := range subs {
			if s.owner != owner {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(b.subs, tag)
		} else {
			b.subs[tag] = kept
		}
	}
}

// Clear removes all subscriptions for all tags.
func (b *Bus) Clear() {
	b.subs = map[string][]subscription{}
}

// Publish dispatches ev to all handlers subscribed to its tag, in
// subscription order, then to wildcard handlers. Zero subscribers is a
// no-op. The first handler error stops dispatch and is returned.
func (b *Bus) Publish(ev Event) error {
	// Snapshot the lists: handlers may subscribe or unsubscribe during
	// dispatch without affecting this call's delivery.
	exact := append([]subscription(nil), b.subs[ev.Tag()]...)
	for _, s := range exact {
		if err := s.fn(ev); err != nil {
			return err
		}
	}
	wild := append([]subscription(nil), b.subs[wildcard]...)
	for _, s := range wild {
		if err := s.fn(ev); err != nil {
			return err
		}
	}
	return nil
}
