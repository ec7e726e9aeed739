package plonkish

import (
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/0xArsi/fib-circuit/logger"
)

// MockProver synthesizes a circuit and checks the resulting witness
// table against every declared gate, copy constraint and instance
// binding. It stands in for a cryptographic proving backend during
// development and testing.
type MockProver struct {
	cs  *ConstraintSystem
	tbl *table
}

// RunMockProver configures and synthesizes c. instance supplies the
// public inputs, one slice per instance column declared by the circuit.
//
// Structural errors abort synthesis and are returned here; an
// unsatisfied relation is only reported later, by [MockProver.Verify].
// The two classes never mix.
func RunMockProver(c Circuit, instance [][]fr.Element) (*MockProver, error) {
	cs := NewConstraintSystem()
	c.Configure(cs)

	if len(instance) != cs.instanceCount {
		return nil, fmt.Errorf("expected %d instance columns, got %d", cs.instanceCount, len(instance))
	}

	tbl := newTable(cs, instance)
	ly := newLayouter(cs, tbl)
	if err := c.Synthesize(ly); err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	log := logger.Logger()
	log.Debug().
		Int("rows", tbl.rows).
		Int("gates", len(cs.gates)).
		Int("copyConstraints", len(tbl.copies)).
		Int("instanceConstraints", len(tbl.instances)).
		Msg("synthesized witness table")

	return &MockProver{cs: cs, tbl: tbl}, nil
}

// StructuralCheck runs the no-witness variant of c through both phases.
// It reports structural errors only; no gate is evaluated.
func StructuralCheck(c Circuit) error {
	shadow := c.WithoutWitnesses()

	cs := NewConstraintSystem()
	shadow.Configure(cs)

	tbl := newTable(cs, make([][]fr.Element, cs.instanceCount))
	ly := newLayouter(cs, tbl)
	if err := shadow.Synthesize(ly); err != nil {
		return fmt.Errorf("structural check: %w", err)
	}
	return nil
}

// Rows returns the number of used table rows.
func (p *MockProver) Rows() int {
	return p.tbl.rows
}

// CellValue returns the value assigned to (col, row), or an unknown
// value if the cell was never assigned.
func (p *MockProver) CellValue(col Column, row int) Value {
	if col.kind != AdviceKind || row < 0 || row >= p.tbl.rows {
		return Value{}
	}
	return p.tbl.adviceValue(col.index, row)
}

// Verify checks every gate at every used row, every copy constraint and
// every instance binding. The returned error joins one entry per
// failure; nil means the witness satisfies the relation.
func (p *MockProver) Verify() error {
	fails := p.verifyRows(0, p.tbl.rows)
	fails = append(fails, p.verifyConstraints()...)
	return errors.Join(fails...)
}

// VerifyParallel is Verify with the gate checks sharded across CPUs.
// It reports exactly the failures Verify reports.
func (p *MockProver) VerifyParallel() error {
	workers := min(runtime.NumCPU(), p.tbl.rows)
	if workers <= 1 {
		return p.Verify()
	}

	chunk := (p.tbl.rows + workers - 1) / workers
	failsPerWorker := make([][]error, workers)

	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		begin := i * chunk
		end := min(begin+chunk, p.tbl.rows)
		eg.Go(func() error {
			failsPerWorker[i] = p.verifyRows(begin, end)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var fails []error
	for i := range failsPerWorker {
		fails = append(fails, failsPerWorker[i]...)
	}
	fails = append(fails, p.verifyConstraints()...)
	return errors.Join(fails...)
}

func (p *MockProver) verifyRows(begin, end int) []error {
	var fails []error
	for row := begin; row < end; row++ {
		for _, g := range p.cs.gates {
			for i, poly := range g.polys {
				v := poly.node.eval(p.tbl, row)
				e, known := v.Get()
				if !known {
					fails = append(fails, &UnknownValueFailure{Gate: g.name, Row: row})
					continue
				}
				if !e.IsZero() {
					fails = append(fails, &GateFailure{Gate: g.name, Poly: i, Row: row})
				}
			}
		}
	}
	return fails
}

func (p *MockProver) verifyConstraints() []error {
	var fails []error

	for _, cc := range p.tbl.copies {
		from := p.tbl.adviceValue(cc.from.Column.index, cc.from.Row)
		to := p.tbl.adviceValue(cc.to.Column.index, cc.to.Row)
		if !from.Equal(to) {
			fails = append(fails, &CopyFailure{From: cc.from, To: cc.to})
		}
	}

	for _, ic := range p.tbl.instances {
		v := p.tbl.adviceValue(ic.cell.Column.index, ic.cell.Row)
		col := p.tbl.instance[ic.column.index]
		if ic.row >= len(col) || !v.Equal(Known(col[ic.row])) {
			fails = append(fails, &InstanceFailure{Cell: ic.cell, Column: ic.column, Row: ic.row})
		}
	}

	return fails
}

// WitnessDigest hashes the complete table: row count, every advice cell
// together with its known flag, and every selector bitmap. Synthesizing
// the same circuit twice must produce identical digests.
func (p *MockProver) WitnessDigest() [blake2b.Size256]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(p.tbl.rows))
	h.Write(buf[:])

	for col := range p.tbl.advice {
		for row := 0; row < p.tbl.rows; row++ {
			v := p.tbl.adviceValue(col, row)
			if e, known := v.Get(); known {
				eBytes := e.Bytes()
				h.Write([]byte{1})
				h.Write(eBytes[:])
			} else {
				h.Write([]byte{0})
			}
		}
	}

	for _, s := range p.tbl.selectors {
		sBytes, err := s.MarshalBinary()
		if err != nil {
			panic(err)
		}
		h.Write(sBytes)
	}

	var digest [blake2b.Size256]byte
	h.Sum(digest[:0])
	return digest
}
