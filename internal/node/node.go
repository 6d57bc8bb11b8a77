// Package node defines the Normalized Node tree shape: the canonical
// output of the Engine before the Output Adapter materializes it into a
// concrete container form.
package node

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Node is Null | Bool | Int64 | Float64 | String | Seq[Node] |
// Map[String|Int, Node] per §3. Go has no closed sum type, so it is
// represented structurally: nil, bool, int64, float64, string, []Node, or
// *Map.
type Node = any

// Map is the key-preserving mapping node, backed by an ordered map so
// insertion order (field declaration order, or a record's own key order)
// survives into the Output Adapter untouched.
type Map = orderedmap.OrderedMap[any, Node]

func NewMap() *Map { return orderedmap.New[any, Node]() }

// Seq is the index-ordered sequence node.
type Seq = []Node
