package normalize

import "github.com/arborist-dev/normalize/internal/iterx"

// Sequencer is implemented by a type that wants to be normalized as an
// ordered sequence (via the default Sequence/Iterable step) rather than
// as a record, without exposing a concrete slice field. See [R2].
type Sequencer = iterx.Sequencer
