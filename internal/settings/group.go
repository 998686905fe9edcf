package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Group is a named collection of entries. Subscribers of a group are told
// the name of each entry that changed.
type Group struct {
	name    string
	entries []anyEntry

	observers Observers[string]
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// String creates a string entry.
func (g *Group) String(name, def string) *Entry[string] {
	return newEntry(g, name, def, equalComparable[string], cast.ToStringE)
}

// Path creates a file path entry. Non-empty values are cleaned.
func (g *Group) Path(name, def string) *Entry[string] {
	return newEntry(g, name, def, equalComparable[string], coercePath)
}

// Int creates an integer entry.
func (g *Group) Int(name string, def int) *Entry[int] {
	return newEntry(g, name, def, equalComparable[int], cast.ToIntE)
}

// Bool creates a boolean entry.
func (g *Group) Bool(name string, def bool) *Entry[bool] {
	return newEntry(g, name, def, equalComparable[bool], cast.ToBoolE)
}

// Decimal creates an arbitrary-precision real entry.
func (g *Group) Decimal(name string, def decimal.Decimal) *Entry[decimal.Decimal] {
	return newEntry(g, name, def, decimal.Decimal.Equal, coerceDecimal)
}

// Set assigns raw to the entry with the given name (case-insensitive).
func (g *Group) Set(name string, raw any) error {
	e := g.lookup(name)
	if e == nil {
		return fmt.Errorf("group %s has no setting %q", g.name, name)
	}
	return e.SetAny(raw)
}

// Values returns the current value of each entry keyed by entry name.
func (g *Group) Values() map[string]any {
	out := make(map[string]any, len(g.entries))
	for _, e := range g.entries {
		out[e.Name()] = e.Any()
	}
	return out
}

// EntryNames returns the entry names in creation order.
func (g *Group) EntryNames() []string {
	out := make([]string, len(g.entries))
	for i, e := range g.entries {
		out[i] = e.Name()
	}
	return out
}

// Subscribe registers fn to be called with the entry name after any entry in
// the group changes.
func (g *Group) Subscribe(fn func(entry string)) (unsubscribe func()) {
	return g.observers.Subscribe(fn)
}

func (g *Group) add(e anyEntry) {
	g.entries = append(g.entries, e)
}

func (g *Group) lookup(name string) anyEntry {
	for _, e := range g.entries {
		if strings.EqualFold(e.Name(), name) {
			return e
		}
	}
	return nil
}

func (g *Group) notify(entry string) {
	g.observers.Notify(entry)
}

// Registry owns the setting groups of one session.
type Registry struct {
	groups map[string]*Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]*Group)}
}

// Group returns the group with the given name, creating it if needed.
func (r *Registry) Group(name string) *Group {
	key := strings.ToLower(name)
	if g, ok := r.groups[key]; ok {
		return g
	}
	g := &Group{name: name}
	r.groups[key] = g
	return g
}

// Set assigns a value addressed as "Group.Entry", e.g. "Scan.ExtentX".
func (r *Registry) Set(key string, raw any) error {
	groupName, entryName, ok := strings.Cut(key, ".")
	if !ok || groupName == "" || entryName == "" {
		return fmt.Errorf("invalid setting key %q: expected Group.Entry", key)
	}
	g, exists := r.groups[strings.ToLower(groupName)]
	if !exists {
		return fmt.Errorf("unknown settings group %q", groupName)
	}
	return g.Set(entryName, raw)
}

// GroupNames returns the registered group names sorted alphabetically.
func (r *Registry) GroupNames() []string {
	out := make([]string, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g.name)
	}
	sort.Strings(out)
	return out
}
