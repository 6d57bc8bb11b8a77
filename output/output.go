// Package output implements the Output Adapter: it materializes the
// Engine's Normalized Node tree into a plain, JSON-encoder-ready form
// while preserving map insertion order, mirroring the recursive
// type-switch style of engine/core/hash.go's WriteStableJSON (there used
// to produce canonical bytes; here used to flatten a typed node tree).
package output

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/arborist-dev/normalize/internal/node"
)

// Mode selects the container shape ToPlain builds for a Normalized Map
// node. The default, ModeOrdered, keeps key order exactly as the Engine
// produced it; ModePlainMap trades that order away for a native Go map,
// which some downstream consumers (e.g. a diffing or a structural-equality
// check) find easier to work with than an *orderedmap.OrderedMap.
type Mode int

const (
	ModeOrdered Mode = iota
	ModePlainMap
)

// Tree wraps the root Normalized Node returned by a Normalize call.
type Tree struct {
	root node.Node
	mode Mode
}

func FromNode(n node.Node) *Tree { return &Tree{root: n} }

// FromNodeWithMode is FromNode plus an explicit output Mode, used by the
// façade's WithOutput option to thread the caller's chosen container
// shape through to ToPlain.
func FromNodeWithMode(n node.Node, mode Mode) *Tree { return &Tree{root: n, mode: mode} }

// Root returns the raw node tree, still typed as nil | bool | int64 |
// float64 | string | []node.Node | *node.Map.
func (t *Tree) Root() node.Node { return t.root }

// ToPlain flattens the tree into an any built from []any and either an
// order-preserving *orderedmap.OrderedMap[any, any] or a plain
// map[string]any, depending on the Tree's Mode, ready for a JSON encoder
// or any other downstream serializer. JSON encoding itself stays out of
// scope here, matching the source spec's "wire formatters are out of
// scope."
func (t *Tree) ToPlain() any { return toPlain(t.root, t.mode) }

func toPlain(n node.Node, mode Mode) any {
	switch v := n.(type) {
	case []node.Node:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = toPlain(e, mode)
		}
		return out
	case *node.Map:
		if mode == ModePlainMap {
			out := make(map[string]any, v.Len())
			for pair := v.Oldest(); pair != nil; pair = pair.Next() {
				out[fmt.Sprint(pair.Key)] = toPlain(pair.Value, mode)
			}
			return out
		}
		out := orderedmap.New[any, any]()
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, toPlain(pair.Value, mode))
		}
		return out
	default:
		return v
	}
}
