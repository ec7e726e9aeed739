package plonkish

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Cell identifies one (column, row) position of the table.
type Cell struct {
	Column Column
	Row    int
}

func (c Cell) String() string {
	return fmt.Sprintf("%v[%d]", c.Column, c.Row)
}

// AssignedCell is the handle returned by an assignment: the cell
// identity together with the value placed there. Referencing an
// AssignedCell from a later row is a non-owning relation; the table
// remains the sole owner of the value.
type AssignedCell struct {
	cell  Cell
	value Value
}

// Cell returns the cell identity.
func (a AssignedCell) Cell() Cell {
	return a.cell
}

// Value returns the assigned value.
func (a AssignedCell) Value() Value {
	return a.value
}

type copyConstraint struct {
	from Cell
	to   Cell
}

type instanceConstraint struct {
	cell   Cell
	column Column
	row    int
}

// table is the complete witness: advice cells, selector bitmaps and the
// equality constraints recorded during synthesis.
type table struct {
	advice    [][]Value
	selectors []*bitset.BitSet
	instance  [][]fr.Element

	copies    []copyConstraint
	instances []instanceConstraint

	rows int
}

func newTable(cs *ConstraintSystem, instance [][]fr.Element) *table {
	t := &table{
		advice:    make([][]Value, cs.adviceCount),
		selectors: make([]*bitset.BitSet, cs.selectorCount),
		instance:  instance,
	}
	for i := range t.selectors {
		t.selectors[i] = bitset.New(0)
	}
	return t
}

func (t *table) setAdvice(col, row int, v Value) {
	for len(t.advice[col]) <= row {
		t.advice[col] = append(t.advice[col], Value{})
	}
	t.advice[col][row] = v
}

func (t *table) adviceValue(col, row int) Value {
	if row >= len(t.advice[col]) {
		return Value{}
	}
	return t.advice[col][row]
}

// Layouter hands out regions of fresh rows and records the constraints
// tying cells together across regions. Synthesis through a Layouter is
// strictly sequential; a region must be fully assigned before the next
// one starts.
type Layouter struct {
	cs  *ConstraintSystem
	tbl *table
}

func newLayouter(cs *ConstraintSystem, tbl *table) *Layouter {
	return &Layouter{cs: cs, tbl: tbl}
}

// AssignRegion runs f over a region starting at the first free row.
// Rows touched by the region are consumed; the next region starts below
// them. An error from f aborts synthesis.
func (ly *Layouter) AssignRegion(name string, f func(r *Region) error) error {
	r := &Region{ly: ly, start: ly.tbl.rows}
	if err := f(r); err != nil {
		return fmt.Errorf("region %q: %w", name, err)
	}
	ly.tbl.rows += r.rows
	return nil
}

// ConstrainInstance pins an assigned cell to the public input at
// (col, row). Both the cell's column and col need equality permission.
func (ly *Layouter) ConstrainInstance(c Cell, col Column, row int) error {
	if col.kind != InstanceKind {
		return fmt.Errorf("%w: %v", ErrNotInstanceColumn, col)
	}
	if !ly.cs.equalityEnabled(c.Column) || !ly.cs.equalityEnabled(col) {
		return fmt.Errorf("%w: constrain %v to %v[%d]", ErrEqualityNotEnabled, c, col, row)
	}
	ly.tbl.instances = append(ly.tbl.instances, instanceConstraint{cell: c, column: col, row: row})
	return nil
}

// Region is a block of rows under assignment. Offsets are region-relative.
type Region struct {
	ly    *Layouter
	start int
	rows  int
}

func (r *Region) touch(offset int) int {
	if offset+1 > r.rows {
		r.rows = offset + 1
	}
	return r.start + offset
}

// EnableSelector activates s at the given offset.
func (r *Region) EnableSelector(s Selector, offset int) {
	row := r.touch(offset)
	r.ly.tbl.selectors[s.index].Set(uint(row))
}

// AssignAdvice places v into col at the given offset and returns the
// handle to the new cell. Assignment is lazy-safe: v may still be
// unknown during a structural pass.
func (r *Region) AssignAdvice(col Column, offset int, v Value) (AssignedCell, error) {
	if col.kind != AdviceKind {
		return AssignedCell{}, fmt.Errorf("%w: %v", ErrNotAdviceColumn, col)
	}
	row := r.touch(offset)
	r.ly.tbl.setAdvice(col.index, row, v)
	return AssignedCell{cell: Cell{Column: col, Row: row}, value: v}, nil
}

// CopyAdvice places a copy of c into col at the given offset and records
// the equality constraint between the two cells. Both columns must have
// equality enabled; a missing permission is a structural error and
// aborts synthesis.
func (r *Region) CopyAdvice(c AssignedCell, col Column, offset int) (AssignedCell, error) {
	if col.kind != AdviceKind {
		return AssignedCell{}, fmt.Errorf("%w: %v", ErrNotAdviceColumn, col)
	}
	if !r.ly.cs.equalityEnabled(c.cell.Column) || !r.ly.cs.equalityEnabled(col) {
		return AssignedCell{}, fmt.Errorf("%w: copy %v to %v", ErrEqualityNotEnabled, c.cell, col)
	}
	row := r.touch(offset)
	r.ly.tbl.setAdvice(col.index, row, c.value)
	to := Cell{Column: col, Row: row}
	r.ly.tbl.copies = append(r.ly.tbl.copies, copyConstraint{from: c.cell, to: to})
	return AssignedCell{cell: to, value: c.value}, nil
}
