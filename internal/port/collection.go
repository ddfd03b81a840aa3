package port

import (
	"fmt"
	"strings"
)

// Element is anything a Collection can hold: a Port with a fixed positional index
// matching its place in the binding's ports list (spec.md §3, §9 "Collection
// polymorphism becomes parametric in Inner").
type Element interface {
	Port
	fmt.Stringer
	Index() int
}

// indexed wraps a concrete port type with its positional index.
type indexed[T Port] struct {
	T
	index int
}

func (i indexed[T]) Index() int { return i.index }

// Collection is an ordered, indexed group of same-typed inner ports. Iteration
// order equals binding order; len, indexing, iteration, string-join, and
// representation all delegate to the inner list (spec.md §4.2).
type Collection[T Port] struct {
	base
	elems []indexed[T]
}

// Len returns the number of inner ports.
func (c *Collection[T]) Len() int { return len(c.elems) }

// At returns the inner port at position i.
func (c *Collection[T]) At(i int) T { return c.elems[i].T }

// IndexOf returns the inner port's positional index within the binding (equal to i
// for a well-formed collection, but looked up explicitly so callers never assume it).
func (c *Collection[T]) IndexOf(i int) int { return c.elems[i].index }

// All returns the elements in binding order.
func (c *Collection[T]) All() []indexed[T] { return c.elems }

func (c *Collection[T]) String() string {
	parts := make([]string, len(c.elems))
	for i, e := range c.elems {
		if s, ok := any(e.T).(fmt.Stringer); ok {
			parts[i] = s.String()
		} else {
			parts[i] = e.Name()
		}
	}
	return strings.Join(parts, ", ")
}
