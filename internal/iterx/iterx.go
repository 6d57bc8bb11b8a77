// Package iterx declares the minimal interface a value must satisfy to be
// treated as a lazily-traversable sequence rather than a record or a bare
// map/slice. It is a leaf package so both the descriptor matcher and the
// engine's default-step renderer can depend on it without a cycle back to
// the root package, which re-exports it as normalize.Sequencer.
package iterx

import "iter"

// Sequencer is implemented by types that expose their elements as a
// range-over-func sequence instead of a concrete slice or map.
type Sequencer interface {
	Seq() iter.Seq[any]
}
