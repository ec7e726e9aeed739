// Package plonkish implements a minimal PLONKish constraint system:
// advice and instance columns, per-row selectors, polynomial gates gated
// by those selectors, and copy constraints between cells, together with
// a mock prover that checks satisfiability of a synthesized witness
// table. It plays the role of the proving backend for circuits defined
// against the [Circuit] interface.
package plonkish

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Value is a lazily evaluated field element. It is either known,
// wrapping a concrete element, or unknown, the placeholder used while
// declaring circuit topology before any witness data exists.
// Once a Value is known it never reverts to unknown.
type Value struct {
	elem  fr.Element
	known bool
}

// Known wraps a concrete field element.
func Known(x fr.Element) Value {
	return Value{elem: x, known: true}
}

// KnownUint64 wraps a small integer as a known field element.
func KnownUint64(x uint64) Value {
	var e fr.Element
	e.SetUint64(x)
	return Value{elem: e, known: true}
}

// Unknown returns the witness-less placeholder value.
func Unknown() Value {
	return Value{}
}

// IsKnown reports whether v holds a concrete element.
func (v Value) IsKnown() bool {
	return v.known
}

// Get returns the wrapped element. The second return is false for unknown values.
func (v Value) Get() (fr.Element, bool) {
	return v.elem, v.known
}

// Add returns v + w. The sum is known only if both operands are known.
func (v Value) Add(w Value) Value {
	if !v.known || !w.known {
		return Value{}
	}
	var sum fr.Element
	sum.Add(&v.elem, &w.elem)
	return Value{elem: sum, known: true}
}

// Equal reports whether both values are known and wrap the same element.
func (v Value) Equal(w Value) bool {
	return v.known && w.known && v.elem.Equal(&w.elem)
}
