// Package engine implements the Normalizer Engine: the recursive
// traversal that drives dispatch, maintains the cycle-detection set, and
// performs default normalization per runtime kind. Grounded in
// pkg/ref/resolver_new.go's Resolve method (the same unwrap-then-type-
// switch recursion shape) and pkg/normalizer/normalizer.go's nested
// recursive-normalization call structure and error-wrapping style.
package engine

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/arborist-dev/normalize/internal/dispatch"
	"github.com/arborist-dev/normalize/internal/node"
	"github.com/arborist-dev/normalize/internal/nerrors"
	"github.com/arborist-dev/normalize/internal/reflectx"
	"github.com/arborist-dev/normalize/internal/registry"
	"github.com/arborist-dev/normalize/pkg/logger"
)

// Engine holds the frozen registry snapshot for exactly one Normalize
// call. A new Engine is built per call by the façade; nothing about it is
// reused across calls, matching §5's resource-scoping requirement.
type Engine struct {
	snap     *registry.Snapshot
	log      logger.Logger
	maxDepth int
}

// New builds an Engine for exactly one Normalize call. maxDepth bounds the
// recursion depth of the traversal; 0 means unlimited, matching the
// façade's zero-value default when WithMaxDepth is never supplied.
func New(snap *registry.Snapshot, log logger.Logger, maxDepth int) *Engine {
	return &Engine{snap: snap, log: log, maxDepth: maxDepth}
}

// session carries the per-call cycle-detection set and current recursion
// depth. It is discarded at the end of Normalize; nothing about it
// survives to the next call.
type session struct {
	eng     *Engine
	id      uuid.UUID
	onStack map[uintptr]reflect.Type
	depth   int
}

func (e *Engine) Normalize(ctx context.Context, value any) (node.Node, error) {
	sess := &session{eng: e, id: uuid.New(), onStack: map[uintptr]reflect.Type{}}
	v := reflect.ValueOf(value)
	result, err := sess.normalize(ctx, v, nil)
	if err != nil {
		if e.log != nil {
			e.log.Error("normalize call failed", append([]any{"session", sess.id.String()}, logFields(err)...)...)
		}
		return nil, err
	}
	return result, nil
}

// normalize is the single recursive entry point for any encountered
// value. fieldAttrs is non-nil only when v is being visited as a record
// field's value; it seeds the attribute-bound portion of v's dispatch
// chain, per §4.4 step 2's "field's attributes are prepended before the
// class attributes."
func (s *session) normalize(ctx context.Context, v reflect.Value, fieldAttrs []any) (node.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	s.depth++
	defer func() { s.depth-- }()
	if s.eng.maxDepth > 0 && s.depth > s.eng.maxDepth {
		depthErr := nerrors.MaxDepthExceeded(s.eng.maxDepth)
		if s.eng.log != nil {
			s.eng.log.Warn("max depth exceeded", append([]any{"session", s.id.String()}, logFields(depthErr)...)...)
		}
		return nil, depthErr
	}

	v, pushed, identity, err := s.unwrapAndPush(v)
	if err != nil {
		return nil, err
	}
	if pushed {
		defer delete(s.onStack, identity)
	}

	chain, err := s.buildChain(ctx, v, fieldAttrs)
	if err != nil {
		return nil, err
	}
	result, err := chain.Run(v)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return toTreeNode(result), nil
}

// unwrapAndPush dereferences pointers/interfaces and, for kinds that can
// participate in a reference cycle, pushes that value's identity onto the
// traversal stack, returning a fatal error if it is already there. Go's
// maps and slices are reference types exactly like pointers — m["k"] = m
// or s[0] = s both build a genuine cycle with no pointer in sight — so
// both are tracked here too, not only reflect.Ptr; a bare struct, array,
// or other value-kind can never form a cycle on its own and needs no
// identity check.
func (s *session) unwrapAndPush(v reflect.Value) (reflect.Value, bool, uintptr, error) {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr) {
		if v.IsNil() {
			return reflect.Value{}, false, 0, nil
		}
		if v.Kind() == reflect.Ptr {
			ptr := v.Pointer()
			elem := v.Elem()
			if err := s.checkAndPush(ptr, elem.Type()); err != nil {
				return reflect.Value{}, false, 0, err
			}
			return elem, true, ptr, nil
		}
		v = v.Elem()
	}
	if v.IsValid() && (v.Kind() == reflect.Map || v.Kind() == reflect.Slice) && !v.IsNil() && v.Len() > 0 {
		ptr := v.Pointer()
		if err := s.checkAndPush(ptr, v.Type()); err != nil {
			return reflect.Value{}, false, 0, err
		}
		return v, true, ptr, nil
	}
	return v, false, 0, nil
}

// checkAndPush raises CircularReference if ptr is already on the
// traversal stack, otherwise pushes it.
func (s *session) checkAndPush(ptr uintptr, t reflect.Type) error {
	if _, onStack := s.onStack[ptr]; onStack {
		cycleErr := nerrors.CircularReference(t.String())
		if s.eng.log != nil {
			s.eng.log.Warn("circular reference detected", append([]any{"session", s.id.String()}, logFields(cycleErr)...)...)
		}
		return cycleErr
	}
	s.onStack[ptr] = t
	return nil
}

// toTreeNode widens a numeric chain result (a transformer may return any
// int or float kind) to the int64/float64 the Normalized Node tree uses.
func toTreeNode(v any) node.Node {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

// buildChain resolves the full dispatch chain for v: matching free
// transformers, field-level attributes (if any), then class-level
// attributes of v's own declaring type, terminated by the default step.
func (s *session) buildChain(ctx context.Context, v reflect.Value, fieldAttrs []any) (*dispatch.Chain, error) {
	var classAttrs []any
	if v.IsValid() && v.Kind() == reflect.Struct {
		classAttrs = s.eng.snap.ClassAttributes(v.Type())
	}
	steps := dispatch.BuildValueSteps(s.eng.snap.FreeValueTransformers(), v, fieldAttrs, classAttrs)
	return dispatch.NewChain(steps, func(subject reflect.Value) (any, error) {
		return s.renderDefault(ctx, subject)
	}), nil
}

// fieldsOf is a small indirection so tests can stub field enumeration if
// ever needed; today it's a direct pass-through to reflectx.
func fieldsOf(t reflect.Type) []reflectx.FieldInfo { return reflectx.Fields(t) }
