package plonkish

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Rotation is a row offset relative to the row a gate is evaluated at.
type Rotation int

const (
	// CurRotation references the current row.
	CurRotation Rotation = 0
	// NextRotation references the row below.
	NextRotation Rotation = 1
)

// VirtualCells builds the cell and selector queries a gate may reference.
type VirtualCells struct {
	cs *ConstraintSystem
}

// QuerySelector references the gate's selector flag at the evaluated row.
func (vc *VirtualCells) QuerySelector(s Selector) Expression {
	return Expression{node: selectorQuery{sel: s}}
}

// QueryAdvice references an advice cell at the given rotation from the
// evaluated row.
func (vc *VirtualCells) QueryAdvice(col Column, rot Rotation) Expression {
	return Expression{node: adviceQuery{col: col, rot: rot}}
}

// Expression is a polynomial over queried cells, selectors and constants.
type Expression struct {
	node exprNode
}

// Constant lifts a field element into an expression.
func Constant(x fr.Element) Expression {
	return Expression{node: constNode{elem: x}}
}

// Add returns e + o.
func (e Expression) Add(o Expression) Expression {
	return Expression{node: binNode{op: opAdd, a: e.node, b: o.node}}
}

// Sub returns e - o.
func (e Expression) Sub(o Expression) Expression {
	return Expression{node: binNode{op: opSub, a: e.node, b: o.node}}
}

// Mul returns e * o.
func (e Expression) Mul(o Expression) Expression {
	return Expression{node: binNode{op: opMul, a: e.node, b: o.node}}
}

type exprOp int

const (
	opAdd exprOp = iota
	opSub
	opMul
)

type exprNode interface {
	eval(tbl *table, row int) Value
}

type constNode struct {
	elem fr.Element
}

func (n constNode) eval(tbl *table, row int) Value {
	return Known(n.elem)
}

type selectorQuery struct {
	sel Selector
}

func (n selectorQuery) eval(tbl *table, row int) Value {
	if tbl.selectors[n.sel.index].Test(uint(row)) {
		return KnownUint64(1)
	}
	return KnownUint64(0)
}

type adviceQuery struct {
	col Column
	rot Rotation
}

func (n adviceQuery) eval(tbl *table, row int) Value {
	r := row + int(n.rot)
	if tbl.rows > 0 {
		r = ((r % tbl.rows) + tbl.rows) % tbl.rows
	}
	return tbl.adviceValue(n.col.index, r)
}

type binNode struct {
	op   exprOp
	a, b exprNode
}

func (n binNode) eval(tbl *table, row int) Value {
	va := n.a.eval(tbl, row)
	vb := n.b.eval(tbl, row)
	ea, okA := va.Get()
	eb, okB := vb.Get()

	// A product with a known zero factor is zero even if the other
	// factor is an unassigned cell; rows with a disabled selector stay
	// satisfied without witness data.
	if n.op == opMul {
		if (okA && ea.IsZero()) || (okB && eb.IsZero()) {
			return KnownUint64(0)
		}
	}

	if !okA || !okB {
		return Unknown()
	}

	var out fr.Element
	switch n.op {
	case opAdd:
		out.Add(&ea, &eb)
	case opSub:
		out.Sub(&ea, &eb)
	case opMul:
		out.Mul(&ea, &eb)
	}
	return Known(out)
}
