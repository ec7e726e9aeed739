package plonkish_test

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xArsi/fib-circuit/plonkish"
)

// mulCircuit proves X*Y = Z with two chained rows: row 0 computes the
// product, row 1 copies it into its first wire, multiplies by one and
// claims Z.
type mulCircuit struct {
	X plonkish.Value
	Y plonkish.Value
	Z plonkish.Value

	// BindZ pins the claimed product to instance slot 0.
	BindZ bool
	// SkipEquality omits the equality permission on the product column,
	// making the row-1 copy a structural error.
	SkipEquality bool

	config mulConfig
}

type mulConfig struct {
	x, y, z  plonkish.Column
	selector plonkish.Selector
	pub      plonkish.Column
}

func (c *mulCircuit) Configure(cs *plonkish.ConstraintSystem) {
	cfg := mulConfig{
		x: cs.AdviceColumn(),
		y: cs.AdviceColumn(),
		z: cs.AdviceColumn(),
	}
	cs.EnableEquality(cfg.x)
	if !c.SkipEquality {
		cs.EnableEquality(cfg.z)
	}

	cfg.selector = cs.Selector()
	cs.CreateGate("mul", func(vc *plonkish.VirtualCells) []plonkish.Expression {
		s := vc.QuerySelector(cfg.selector)
		x := vc.QueryAdvice(cfg.x, plonkish.CurRotation)
		y := vc.QueryAdvice(cfg.y, plonkish.CurRotation)
		z := vc.QueryAdvice(cfg.z, plonkish.CurRotation)
		return []plonkish.Expression{s.Mul(x.Mul(y).Sub(z))}
	})

	if c.BindZ {
		cfg.pub = cs.InstanceColumn()
		cs.EnableEquality(cfg.pub)
	}

	c.config = cfg
}

func (c *mulCircuit) Synthesize(ly *plonkish.Layouter) error {
	var prod plonkish.AssignedCell
	err := ly.AssignRegion("product", func(r *plonkish.Region) error {
		r.EnableSelector(c.config.selector, 0)
		xCell, err := r.AssignAdvice(c.config.x, 0, c.X)
		if err != nil {
			return err
		}
		yCell, err := r.AssignAdvice(c.config.y, 0, c.Y)
		if err != nil {
			return err
		}
		prod, err = r.AssignAdvice(c.config.z, 0, mulValue(xCell.Value(), yCell.Value()))
		return err
	})
	if err != nil {
		return err
	}

	var claim plonkish.AssignedCell
	err = ly.AssignRegion("claim", func(r *plonkish.Region) error {
		r.EnableSelector(c.config.selector, 0)
		if _, err := r.CopyAdvice(prod, c.config.x, 0); err != nil {
			return err
		}
		if _, err := r.AssignAdvice(c.config.y, 0, plonkish.KnownUint64(1)); err != nil {
			return err
		}
		var err error
		claim, err = r.AssignAdvice(c.config.z, 0, c.Z)
		return err
	})
	if err != nil {
		return err
	}

	if c.BindZ {
		return ly.ConstrainInstance(claim.Cell(), c.config.pub, 0)
	}
	return nil
}

func (c *mulCircuit) WithoutWitnesses() plonkish.Circuit {
	return &mulCircuit{BindZ: c.BindZ, SkipEquality: c.SkipEquality}
}

func mulValue(a, b plonkish.Value) plonkish.Value {
	ea, okA := a.Get()
	eb, okB := b.Get()
	if !okA || !okB {
		return plonkish.Unknown()
	}
	var p fr.Element
	p.Mul(&ea, &eb)
	return plonkish.Known(p)
}

func TestValue(t *testing.T) {
	known := plonkish.KnownUint64(3).Add(plonkish.KnownUint64(4))
	assert.True(t, known.IsKnown())
	assert.True(t, known.Equal(plonkish.KnownUint64(7)))

	mixed := plonkish.KnownUint64(3).Add(plonkish.Unknown())
	assert.False(t, mixed.IsKnown())
	assert.False(t, mixed.Equal(plonkish.KnownUint64(3)))

	_, ok := plonkish.Unknown().Get()
	assert.False(t, ok)
}

func TestMockProver(t *testing.T) {
	c := mulCircuit{
		X: plonkish.KnownUint64(6),
		Y: plonkish.KnownUint64(7),
		Z: plonkish.KnownUint64(42),
	}

	prover, err := plonkish.RunMockProver(&c, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, prover.Rows())
	assert.NoError(t, prover.Verify())
	assert.NoError(t, prover.VerifyParallel())
}

func TestMockProverGateFailure(t *testing.T) {
	c := mulCircuit{
		X: plonkish.KnownUint64(6),
		Y: plonkish.KnownUint64(7),
		Z: plonkish.KnownUint64(41),
	}

	prover, err := plonkish.RunMockProver(&c, nil)
	require.NoError(t, err)

	err = prover.Verify()
	assert.Error(t, err)

	var gateFail *plonkish.GateFailure
	assert.True(t, errors.As(err, &gateFail))
	assert.Equal(t, "mul", gateFail.Gate)
	assert.Equal(t, 1, gateFail.Row)
}

func TestMockProverEqualityNotEnabled(t *testing.T) {
	c := mulCircuit{
		X: plonkish.KnownUint64(6),
		Y: plonkish.KnownUint64(7),
		Z: plonkish.KnownUint64(42),

		SkipEquality: true,
	}

	_, err := plonkish.RunMockProver(&c, nil)
	assert.ErrorIs(t, err, plonkish.ErrEqualityNotEnabled)
}

func TestMockProverInstance(t *testing.T) {
	c := mulCircuit{
		X: plonkish.KnownUint64(6),
		Y: plonkish.KnownUint64(7),
		Z: plonkish.KnownUint64(42),

		BindZ: true,
	}

	var pub fr.Element
	pub.SetUint64(42)
	prover, err := plonkish.RunMockProver(&c, [][]fr.Element{{pub}})
	require.NoError(t, err)
	assert.NoError(t, prover.Verify())

	pub.SetUint64(41)
	prover, err = plonkish.RunMockProver(&c, [][]fr.Element{{pub}})
	require.NoError(t, err)

	err = prover.Verify()
	var instFail *plonkish.InstanceFailure
	assert.True(t, errors.As(err, &instFail))
	assert.Equal(t, 0, instFail.Row)

	_, err = plonkish.RunMockProver(&c, nil)
	assert.Error(t, err)
}

func TestStructuralCheck(t *testing.T) {
	assert.NoError(t, plonkish.StructuralCheck(&mulCircuit{}))
	assert.NoError(t, plonkish.StructuralCheck(&mulCircuit{BindZ: true}))

	// A missing witness is a verification failure, never a structural one.
	prover, err := plonkish.RunMockProver(&mulCircuit{}, nil)
	require.NoError(t, err)

	err = prover.Verify()
	var unknownFail *plonkish.UnknownValueFailure
	assert.True(t, errors.As(err, &unknownFail))
}

func TestWitnessDigest(t *testing.T) {
	c0 := mulCircuit{X: plonkish.KnownUint64(6), Y: plonkish.KnownUint64(7), Z: plonkish.KnownUint64(42)}
	c1 := mulCircuit{X: plonkish.KnownUint64(6), Y: plonkish.KnownUint64(7), Z: plonkish.KnownUint64(42)}
	c2 := mulCircuit{X: plonkish.KnownUint64(6), Y: plonkish.KnownUint64(8), Z: plonkish.KnownUint64(48)}

	p0, err := plonkish.RunMockProver(&c0, nil)
	require.NoError(t, err)
	p1, err := plonkish.RunMockProver(&c1, nil)
	require.NoError(t, err)
	p2, err := plonkish.RunMockProver(&c2, nil)
	require.NoError(t, err)

	assert.Equal(t, p0.WitnessDigest(), p1.WitnessDigest())
	assert.NotEqual(t, p0.WitnessDigest(), p2.WitnessDigest())
}
