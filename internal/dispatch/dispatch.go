// Package dispatch implements the Dispatch Planner and the chain/next
// continuation machinery. The continuation is modeled as a small value
// bound to (chain, position, subject), grounded in server/middleware.go's
// gin c.Next() pattern and the design notes' explicit instruction not to
// rely on closure-captured mutable state.
package dispatch

import (
	"reflect"

	"github.com/samber/lo"

	"github.com/arborist-dev/normalize/attribute"
	"github.com/arborist-dev/normalize/internal/descriptor"
	"github.com/arborist-dev/normalize/internal/registry"
)

// Chain is the ordered, priority- and attribute-driven sequence of steps
// applied to one value, terminated by the default normalization step.
type Chain struct {
	steps    []registry.Step
	fallback func(subject reflect.Value) (any, error)
}

func NewChain(steps []registry.Step, fallback func(reflect.Value) (any, error)) *Chain {
	return &Chain{steps: steps, fallback: fallback}
}

// Run invokes the chain's head with subject as the fixed subject.
func (c *Chain) Run(subject reflect.Value) (any, error) {
	return c.invoke(0, subject)
}

func (c *Chain) invoke(pos int, subject reflect.Value) (any, error) {
	if pos >= len(c.steps) {
		return c.fallback(subject)
	}
	step := c.steps[pos]
	return step(subject, &continuation{chain: c, pos: pos + 1, subject: subject})
}

// continuation is the small next-capability value: bound to (chain,
// position, subject), with a single parameterless Apply.
type continuation struct {
	chain   *Chain
	pos     int
	subject reflect.Value
}

func (c *continuation) Apply() (any, error) { return c.chain.invoke(c.pos, c.subject) }

// BuildValueSteps assembles the value-transformer portion of a chain per
// §4.4: free transformers (already priority/insertion sorted by the
// registry snapshot) matching subject, filtered, then field-level
// attribute transformers (nearest scope first), then class-level ones.
func BuildValueSteps(
	free []registry.Registration,
	subject reflect.Value,
	fieldAttrs []any,
	classAttrs []any,
) []registry.Step {
	matched := lo.Filter(free, func(reg registry.Registration, _ int) bool {
		return descriptor.Match(reg.Param, subject)
	})
	steps := lo.Map(matched, func(reg registry.Registration, _ int) registry.Step {
		return reg.Invoke
	})

	// Attribute instances can reach the chain through both field and class
	// scope (e.g. an attribute attached directly to a field that also
	// satisfies a class-level registration via an embedded ancestor);
	// dedup by identity so one instance never contributes two links.
	attrs := lo.UniqBy(append(append([]any{}, fieldAttrs...), classAttrs...), func(a any) any {
		return a
	})
	attrSteps := lo.FilterMap(attrs, func(inst any, _ int) (registry.Step, bool) {
		vt, ok := inst.(attribute.ValueTransformer)
		if !ok {
			return nil, false
		}
		return attributeStep(vt), true
	})
	return append(steps, attrSteps...)
}

func attributeStep(inst attribute.ValueTransformer) registry.Step {
	return func(subject reflect.Value, next attribute.Next) (any, error) {
		return inst.Normalize(subject.Interface(), next)
	}
}

// noNext is handed to free key transformers, which never declare a next
// parameter (§4.3 caps key-transformer arity at one, with no continuation
// slot); Apply is unreachable in practice but keeps the Step signature
// uniform between value and key registrations.
type noNext struct{}

func (noNext) Apply() (any, error) { return nil, nil }

// BuildKeyChain composes the key-transformer chain for a record field per
// §4.4's "Key chain (per field)": free registrations run first (mirroring
// the value chain's free-before-attribute ordering), each in priority-
// desc/insertion-asc order, then attribute-bound transformers fold in
// declaration order. Zero-parameter transformers substitute their own
// name; one-parameter transformers receive the previous output.
func BuildKeyChain(freeKeyRegs []registry.Registration, attrs []any, original any) (any, error) {
	cur := original
	for _, reg := range freeKeyRegs {
		v, err := reg.Invoke(reflect.ValueOf(cur), noNext{})
		if err != nil {
			return nil, err
		}
		cur = v
	}
	for _, inst := range attrs {
		switch t := inst.(type) {
		case attribute.NamedKeyTransformer:
			v, err := t.NormalizeKey()
			if err != nil {
				return nil, err
			}
			cur = v
		case attribute.KeyTransformer:
			v, err := t.NormalizeKey(cur)
			if err != nil {
				return nil, err
			}
			cur = v
		}
	}
	return cur, nil
}
