package fibonacci

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/0xArsi/fib-circuit/plonkish"
)

// ErrIndexTooSmall is returned when the recurrence index is below 2.
// A shorter claim would synthesize no rows and hold vacuously, so it is
// rejected before any row is produced.
var ErrIndexTooSmall = errors.New("recurrence index must be at least 2")

// FibCircuit proves knowledge of A, B and Z such that f(K) = Z for the
// recurrence f(0)=A, f(1)=B, f(n)=f(n-1)+f(n-2).
//
// K determines the table height and is part of the circuit structure.
// With PublicIndex set, K is additionally bound to slot 0 of an instance
// column, making the index public; otherwise it never leaves the
// witness.
type FibCircuit struct {
	A plonkish.Value
	B plonkish.Value
	Z plonkish.Value

	K           uint64
	PublicIndex bool

	config FibConfig
}

// Config returns the configuration produced by Configure.
func (c *FibCircuit) Config() FibConfig {
	return c.config
}

// Configure declares the chip columns and, in public-index mode, the
// instance column K is bound to.
func (c *FibCircuit) Configure(cs *plonkish.ConstraintSystem) {
	advice := [3]plonkish.Column{cs.AdviceColumn(), cs.AdviceColumn(), cs.AdviceColumn()}
	config := ConfigureFibChip(cs, advice)

	if c.PublicIndex {
		config.Instance = cs.InstanceColumn()
		config.PublicIndex = true
		cs.EnableEquality(config.Instance)
	}

	c.config = config
}

// Synthesize iterates the recurrence for K-1 rows, threading each row's
// output cell into the next row's second input via copy constraint and
// substituting Z for the computed sum on the terminal row. The terminal
// gate then checks f(K-2) + f(K-1) - Z = 0, so the table is only
// satisfiable if Z is the true value of f(K).
func (c *FibCircuit) Synthesize(ly *plonkish.Layouter) error {
	if c.K < 2 {
		return fmt.Errorf("%w: got %d", ErrIndexTooSmall, c.K)
	}

	chip := NewFibChip(c.config)

	f0, f1 := c.A, c.B
	var carry *plonkish.AssignedCell
	for x := uint64(0); x < c.K-1; x++ {
		_, _, cCell, err := chip.AssignRow(ly, f0, f1, carry, c.Z, x == c.K-2)
		if err != nil {
			return err
		}
		carry = &cCell
		f0, f1 = f1, f0.Add(f1)
	}

	if c.PublicIndex {
		return c.bindIndex(ly)
	}
	return nil
}

// bindIndex pins K to instance slot 0 through a selector-less row.
func (c *FibCircuit) bindIndex(ly *plonkish.Layouter) error {
	var k fr.Element
	k.SetUint64(c.K)

	return ly.AssignRegion("index", func(r *plonkish.Region) error {
		kCell, err := r.AssignAdvice(c.config.Advice[0], 0, plonkish.Known(k))
		if err != nil {
			return err
		}
		return ly.ConstrainInstance(kCell.Cell(), c.config.Instance, 0)
	})
}

// WithoutWitnesses returns a copy with A, B and Z unknown. K and the
// index mode are kept: they fix the table layout, which the structural
// phase must reproduce exactly.
func (c *FibCircuit) WithoutWitnesses() plonkish.Circuit {
	return &FibCircuit{K: c.K, PublicIndex: c.PublicIndex}
}
