// Package settings holds the observable tunables that drive scan generation
// and training-data ingestion.
//
// Every tunable is an Entry with a current value and a list of subscribers.
// Set notifies subscribers synchronously, in registration order, and then
// notifies the owning Group. Settings are expected to be mutated from a single
// control goroutine; nothing here is safe for concurrent writers.
package settings

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Observers is an ordered list of callbacks. The zero value is ready to use.
type Observers[T any] struct {
	subs   []subscriber[T]
	nextID int
}

// Subscribe registers fn and returns a function that removes it.
func (o *Observers[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	id := o.nextID
	o.nextID++
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every subscriber with v in registration order.
func (o *Observers[T]) Notify(v T) {
	// Copy so that subscribers may unsubscribe while being notified.
	subs := append([]subscriber[T](nil), o.subs...)
	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of subscribers.
func (o *Observers[T]) Len() int {
	return len(o.subs)
}

// Entry is a single observable setting.
type Entry[T any] struct {
	name   string
	value  T
	group  *Group
	equal  func(a, b T) bool
	coerce func(raw any) (T, error)

	observers Observers[T]
}

// Name returns the entry name within its group.
func (e *Entry[T]) Name() string {
	return e.name
}

// Value returns the current value.
func (e *Entry[T]) Value() T {
	return e.value
}

// Set stores v and notifies subscribers when the value changed.
func (e *Entry[T]) Set(v T) {
	if e.equal(e.value, v) {
		return
	}
	e.value = v

	e.observers.Notify(v)
	if e.group != nil {
		e.group.notify(e.name)
	}
}

// Subscribe registers fn to be called with the new value after each change.
// The returned function removes the subscription.
func (e *Entry[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return e.observers.Subscribe(fn)
}

// SetAny coerces raw to the entry type and stores it.
func (e *Entry[T]) SetAny(raw any) error {
	v, err := e.coerce(raw)
	if err != nil {
		return fmt.Errorf("setting %s: %w", e.name, err)
	}
	e.Set(v)
	return nil
}

// Any returns the current value as an interface, for listing.
func (e *Entry[T]) Any() any {
	return e.value
}

// anyEntry is the type-erased view a Group keeps of its entries.
type anyEntry interface {
	Name() string
	SetAny(raw any) error
	Any() any
}

func newEntry[T any](g *Group, name string, def T, equal func(a, b T) bool, coerce func(any) (T, error)) *Entry[T] {
	e := &Entry[T]{name: name, value: def, group: g, equal: equal, coerce: coerce}
	g.add(e)
	return e
}

func equalComparable[T comparable](a, b T) bool { return a == b }

func coerceDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float32:
		return decimal.NewFromFloat32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	}
	i, err := cast.ToInt64E(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromInt(i), nil
}

func coercePath(raw any) (string, error) {
	s, err := cast.ToStringE(raw)
	if err != nil || s == "" {
		return s, err
	}
	return filepath.Clean(s), nil
}
