package plonkish

import (
	"errors"
	"fmt"
)

// Structural errors abort synthesis immediately. They signal a
// misconfigured circuit, never bad witness data, and must not be retried.
var (
	// ErrEqualityNotEnabled is returned when a copy constraint is
	// attempted on a column that was never granted equality permission.
	ErrEqualityNotEnabled = errors.New("equality not enabled on column")
	// ErrNotAdviceColumn is returned when a witness assignment targets
	// a non-advice column.
	ErrNotAdviceColumn = errors.New("not an advice column")
	// ErrNotInstanceColumn is returned when an instance binding targets
	// a non-instance column.
	ErrNotInstanceColumn = errors.New("not an instance column")
)

// GateFailure reports a gate polynomial that does not vanish at a row.
type GateFailure struct {
	Gate string
	Poly int
	Row  int
}

func (f *GateFailure) Error() string {
	return fmt.Sprintf("gate %q: polynomial %d does not vanish at row %d", f.Gate, f.Poly, f.Row)
}

// CopyFailure reports a copy constraint whose two cells disagree.
type CopyFailure struct {
	From Cell
	To   Cell
}

func (f *CopyFailure) Error() string {
	return fmt.Sprintf("copy constraint violated: %v != %v", f.From, f.To)
}

// InstanceFailure reports a cell that does not match the public input
// it is bound to.
type InstanceFailure struct {
	Cell   Cell
	Column Column
	Row    int
}

func (f *InstanceFailure) Error() string {
	return fmt.Sprintf("instance binding violated: %v != %v[%d]", f.Cell, f.Column, f.Row)
}

// UnknownValueFailure reports a gate evaluation that depends on a cell
// which never became known.
type UnknownValueFailure struct {
	Gate string
	Row  int
}

func (f *UnknownValueFailure) Error() string {
	return fmt.Sprintf("gate %q: value at row %d is not known", f.Gate, f.Row)
}
