// Package normalize converts arbitrary Go values into a canonical tree of
// primitive nodes through a resolvable, priority-ordered chain of
// user-supplied transformers. It is the orchestration façade assembling
// the Type Descriptor Model, Reflection Adapter, Transformer Registry,
// Dispatch Planner, Normalizer Engine, and Output Adapter from
// configuration, exposing the single entry point Normalize.
package normalize

import (
	"context"
	"fmt"
	"reflect"

	"github.com/arborist-dev/normalize/attribute"
	"github.com/arborist-dev/normalize/internal/descriptor"
	"github.com/arborist-dev/normalize/internal/engine"
	"github.com/arborist-dev/normalize/internal/registry"
	"github.com/arborist-dev/normalize/output"
	"github.com/arborist-dev/normalize/pkg/logger"
)

// Option configures a Normalizer at construction time, the same
// functional-options shape the teacher uses for pkg/ref.Option.
type Option func(*Normalizer)

// Normalizer owns a mutable Registry plus the ambient configuration
// (logger, depth guard) every Normalize call needs.
type Normalizer struct {
	reg      *registry.Registry
	log      logger.Logger
	maxDepth int
	outMode  output.Mode
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		reg: registry.New(),
		log: logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WithLogger overrides the Normalizer's logger; by default it uses the
// package-level default logger, matching pkg/logger's own convention.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) { n.log = l }
}

// WithRegistry supplies a pre-built Registry in place of the empty one
// New allocates, letting a caller share one set of registrations across
// several independently-configured Normalizers (distinct loggers, depth
// guards) the same way the teacher's pkg/ref.WithCache shares an
// externally-owned resource instead of allocating a fresh one per call.
func WithRegistry(reg *registry.Registry) Option {
	return func(n *Normalizer) { n.reg = reg }
}

// WithOutput selects the container shape Normalize's returned output.Tree
// flattens Map nodes into when ToPlain is called; see output.Mode.
func WithOutput(mode output.Mode) Option {
	return func(n *Normalizer) { n.outMode = mode }
}

// WithMaxDepth bounds the recursion depth of a Normalize call, guarding
// against runaway traversal of a deeply (but not circularly) nested value
// that cycle detection alone wouldn't catch. 0, the default, means
// unlimited.
func WithMaxDepth(depth int) Option {
	return func(n *Normalizer) { n.maxDepth = depth }
}

// RegisterTransformer registers a free-standing transformer function.
// fn must take one parameter (the subject) and, optionally, a second
// parameter of the concrete shape func() (any, error) acting as the
// continuation.
func (n *Normalizer) RegisterTransformer(fn any, opts ...registry.Option) error {
	if err := n.reg.Register(fn, opts...); err != nil {
		return fmt.Errorf("normalize: RegisterTransformer: %w", err)
	}
	return nil
}

// RegisterKeyTransformer registers a free-standing key transformer. fn
// must take zero or one parameter; a one-parameter transformer's
// parameter must be a string or integer kind, the only shapes a map or
// record key can take.
func (n *Normalizer) RegisterKeyTransformer(fn any, opts ...registry.Option) error {
	if err := n.reg.RegisterKeyTransformer(fn, opts...); err != nil {
		return fmt.Errorf("normalize: RegisterKeyTransformer: %w", err)
	}
	return nil
}

// RegisterAttribute gates identity — a concrete attribute type or an
// interface it implements — for dispatch consideration, per invariant 6:
// attribute-bound transformers are only considered once their identity
// (or an abstraction it declares) has been registered this way.
func (n *Normalizer) RegisterAttribute(identity reflect.Type) error {
	return n.reg.RegisterAttribute(identity)
}

// RegisterClassAttribute attaches instance to every value whose
// declaring type is t or embeds t.
func (n *Normalizer) RegisterClassAttribute(t reflect.Type, instance any) {
	n.reg.RegisterClassAttribute(t, instance)
}

// RegisterFieldAttribute attaches instance to the named field of t.
func (n *Normalizer) RegisterFieldAttribute(t reflect.Type, field string, instance any) {
	n.reg.RegisterFieldAttribute(t, field, instance)
}

// Normalize converts value into a Normalized Node tree, wrapped in an
// output.Tree. It takes an immutable snapshot of the registry first, so
// concurrent registration calls never race with an in-flight Normalize.
func (n *Normalizer) Normalize(ctx context.Context, value any) (*output.Tree, error) {
	snap := n.reg.Snapshot()
	eng := engine.New(snap, n.log, n.maxDepth)
	nd, err := eng.Normalize(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return output.FromNodeWithMode(nd, n.outMode), nil
}

// Re-exported so callers don't need to import attribute or registry
// directly for the common cases.
type (
	Next                   = attribute.Next
	ValueTransformer       = attribute.ValueTransformer
	KeyTransformer         = attribute.KeyTransformer
	NamedKeyTransformer    = attribute.NamedKeyTransformer
	RenamePropertyKey      = attribute.RenamePropertyKey
	AddPrefixToPropertyKey = attribute.AddPrefixToPropertyKey
)

var (
	WithPriority   = registry.WithPriority
	WithRefinement = registry.WithRefinement
)

// Descriptor and the refinement constructors are re-exported as types and
// values only. RegisterTransformer always derives a transformer's
// parameter descriptor from fn's static Go type, narrowed at most by
// WithRefinement; no registration accepts a Descriptor directly, so a
// Union or Intersection parameter cannot be registered.
type Descriptor = descriptor.Descriptor

var (
	PositiveInt = descriptor.PositiveInt
	NegativeInt = descriptor.NegativeInt
)
