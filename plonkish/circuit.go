package plonkish

// Circuit is a relation to prove, bound to the backend's two-phase
// lifecycle. Configure declares columns, selectors and gates with no
// witness data and must succeed for any input, including the no-witness
// variant; its output is immutable once produced. Synthesize populates
// the witness table using only that output and the circuit's inputs.
type Circuit interface {
	// Configure declares the circuit topology.
	Configure(cs *ConstraintSystem)
	// Synthesize populates the witness table.
	Synthesize(ly *Layouter) error
	// WithoutWitnesses returns a copy of the circuit with every lazy
	// value unknown.
	WithoutWitnesses() Circuit
}
