// Package fibonacci arithmetizes the linear recurrence
// f(0)=a, f(1)=b, f(n)=f(n-1)+f(n-2) as a PLONKish table: one gate-checked
// row per recurrence step, copy constraints chaining each row's output
// into the next row's input, and the claimed final value substituted on
// the terminal row. It proves knowledge of a, b and z with f(k)=z while
// keeping all three secret; the index k is private or bound to a public
// input depending on configuration.
package fibonacci

import (
	"fmt"

	"github.com/0xArsi/fib-circuit/plonkish"
)

// FibConfig records the columns and selector of the recurrence gate.
// It is produced once by the structural phase and immutable afterwards.
type FibConfig struct {
	Advice   [3]plonkish.Column
	Selector plonkish.Selector

	// Instance is only valid when PublicIndex is set.
	Instance    plonkish.Column
	PublicIndex bool
}

// FibChip assigns recurrence rows under a FibConfig.
type FibChip struct {
	config FibConfig
}

// NewFibChip creates a new FibChip.
func NewFibChip(config FibConfig) *FibChip {
	return &FibChip{config: config}
}

// ConfigureFibChip registers the recurrence gate s*(a+b-c) = 0 over the
// three advice columns and grants copy-constraint permission on each of
// them, a prerequisite for chaining rows. Call it once per circuit; a
// second call registers a redundant duplicate gate.
func ConfigureFibChip(cs *plonkish.ConstraintSystem, advice [3]plonkish.Column) FibConfig {
	for _, col := range advice {
		cs.EnableEquality(col)
	}

	selector := cs.Selector()
	cs.CreateGate("add", func(vc *plonkish.VirtualCells) []plonkish.Expression {
		s := vc.QuerySelector(selector)
		a := vc.QueryAdvice(advice[0], plonkish.CurRotation)
		b := vc.QueryAdvice(advice[1], plonkish.CurRotation)
		c := vc.QueryAdvice(advice[2], plonkish.CurRotation)
		return []plonkish.Expression{s.Mul(a.Add(b).Sub(c))}
	})

	return FibConfig{
		Advice:   advice,
		Selector: selector,
	}
}

// AssignRow assigns one recurrence row and returns its three cells.
//
// Wire a holds the first input. Wire b copies carry when present,
// chaining this row to the previous row's output, and holds the second
// input directly otherwise (first row only). Wire c holds a+b, or
// terminal on the last row, where the gate then checks a + b - z = 0.
// The selector is enabled unconditionally; every row is gate-checked.
//
// Assignment is lazy-safe: the inputs may be unknown during a structural
// pass, and the resulting cells become known as soon as their
// dependencies are. A carry referencing a column without equality
// permission is a fatal structural error.
func (ch *FibChip) AssignRow(
	ly *plonkish.Layouter,
	a, b plonkish.Value,
	carry *plonkish.AssignedCell,
	terminal plonkish.Value,
	isLast bool,
) (aCell, bCell, cCell plonkish.AssignedCell, err error) {
	err = ly.AssignRegion("row", func(r *plonkish.Region) error {
		r.EnableSelector(ch.config.Selector, 0)

		var err error
		aCell, err = r.AssignAdvice(ch.config.Advice[0], 0, a)
		if err != nil {
			return err
		}

		if carry != nil {
			bCell, err = r.CopyAdvice(*carry, ch.config.Advice[1], 0)
		} else {
			bCell, err = r.AssignAdvice(ch.config.Advice[1], 0, b)
		}
		if err != nil {
			return err
		}

		out := aCell.Value().Add(bCell.Value())
		if isLast {
			out = terminal
		}
		cCell, err = r.AssignAdvice(ch.config.Advice[2], 0, out)
		return err
	})
	if err != nil {
		return plonkish.AssignedCell{}, plonkish.AssignedCell{}, plonkish.AssignedCell{}, fmt.Errorf("assign row: %w", err)
	}
	return aCell, bCell, cCell, nil
}
