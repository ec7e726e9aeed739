package plonkish

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// ColumnKind distinguishes witness columns from public-input columns.
type ColumnKind int

const (
	// AdviceKind columns hold private witness cells.
	AdviceKind ColumnKind = iota
	// InstanceKind columns hold public inputs supplied by the verifier.
	InstanceKind
)

// Column identifies one wire of the table.
type Column struct {
	index int
	kind  ColumnKind
}

// Index returns the column index within its kind.
func (c Column) Index() int {
	return c.index
}

// Kind returns the column kind.
func (c Column) Kind() ColumnKind {
	return c.kind
}

func (c Column) String() string {
	switch c.kind {
	case AdviceKind:
		return fmt.Sprintf("advice[%d]", c.index)
	case InstanceKind:
		return fmt.Sprintf("instance[%d]", c.index)
	}
	return fmt.Sprintf("column[%d]", c.index)
}

// Selector is a per-row flag that activates a gate's identity check at
// the rows where it is enabled.
type Selector struct {
	index int
}

type gate struct {
	name  string
	polys []Expression
}

// ConstraintSystem is the registry of columns, selectors and gates
// shared by the structural and synthesis phases.
type ConstraintSystem struct {
	adviceCount   int
	instanceCount int
	selectorCount int

	adviceEquality   *bitset.BitSet
	instanceEquality *bitset.BitSet

	gates []gate
}

// NewConstraintSystem creates an empty ConstraintSystem.
func NewConstraintSystem() *ConstraintSystem {
	return &ConstraintSystem{
		adviceEquality:   bitset.New(0),
		instanceEquality: bitset.New(0),
	}
}

// AdviceColumn allocates a new advice column.
func (cs *ConstraintSystem) AdviceColumn() Column {
	col := Column{index: cs.adviceCount, kind: AdviceKind}
	cs.adviceCount++
	return col
}

// InstanceColumn allocates a new instance column.
func (cs *ConstraintSystem) InstanceColumn() Column {
	col := Column{index: cs.instanceCount, kind: InstanceKind}
	cs.instanceCount++
	return col
}

// Selector allocates a new selector.
func (cs *ConstraintSystem) Selector() Selector {
	s := Selector{index: cs.selectorCount}
	cs.selectorCount++
	return s
}

// EnableEquality permits copy constraints on col. Chaining a cell of col
// to another cell without this permission is a structural error.
func (cs *ConstraintSystem) EnableEquality(col Column) {
	switch col.kind {
	case AdviceKind:
		cs.adviceEquality.Set(uint(col.index))
	case InstanceKind:
		cs.instanceEquality.Set(uint(col.index))
	}
}

func (cs *ConstraintSystem) equalityEnabled(col Column) bool {
	switch col.kind {
	case AdviceKind:
		return cs.adviceEquality.Test(uint(col.index))
	case InstanceKind:
		return cs.instanceEquality.Test(uint(col.index))
	}
	return false
}

// CreateGate registers a gate. The polynomials returned by f must each
// evaluate to zero at every row where their selector is enabled.
// Registering the same gate twice is redundant but not unsound.
func (cs *ConstraintSystem) CreateGate(name string, f func(vc *VirtualCells) []Expression) {
	vc := &VirtualCells{cs: cs}
	cs.gates = append(cs.gates, gate{name: name, polys: f(vc)})
}
