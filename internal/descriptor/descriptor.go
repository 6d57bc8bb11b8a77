// Package descriptor implements the Type Descriptor Model: a compact
// tagged variant describing declared parameter types, used by the matcher
// to decide whether a runtime value satisfies a transformer's declared
// first parameter. Grounded in the teacher's own type-switch style for
// value dispatch (engine/core/hash.go's WriteStableJSON, pkg/ref's Kind
// switches) but expressed as data rather than inline control flow, since
// here the switch itself must be reusable across many registrations.
package descriptor

import "reflect"

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
	KindRecord
	KindEnum
	KindUnion
	KindIntersection
	KindAnyObject
	KindIterable
	KindCallable
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	case KindAnyObject:
		return "any-object"
	case KindIterable:
		return "iterable"
	case KindCallable:
		return "callable"
	default:
		return "any"
	}
}

// IntRefinement narrows KindInt the way the source spec's positive-int /
// negative-int declared types do; Go has no such scalar subtypes, so a
// registration opts into a refinement explicitly (see registry.WithRefinement).
type IntRefinement int

const (
	RefinementNone IntRefinement = iota
	RefinementPositive
	RefinementNegative
)

// Descriptor is the tagged variant itself. Only the fields relevant to
// Kind are populated; the zero value has Kind KindNull (not KindAny),
// so constructors are the only supported way to build one.
type Descriptor struct {
	Kind          Kind
	IntRefinement IntRefinement
	Of            *Descriptor      // Sequence element / Mapping value type
	KeyOf         *Descriptor      // Mapping key type
	Identity      reflect.Type     // Record / Enum identity
	Components    []Descriptor     // Union / Intersection members
}

func Any() Descriptor      { return Descriptor{Kind: KindAny} }
func AnyObject() Descriptor { return Descriptor{Kind: KindAnyObject} }
func Null() Descriptor     { return Descriptor{Kind: KindNull} }
func Bool() Descriptor     { return Descriptor{Kind: KindBool} }
func Float() Descriptor    { return Descriptor{Kind: KindFloat} }
func String() Descriptor   { return Descriptor{Kind: KindString} }
func Iterable() Descriptor { return Descriptor{Kind: KindIterable} }
func Callable() Descriptor { return Descriptor{Kind: KindCallable} }

func Int() Descriptor { return Descriptor{Kind: KindInt, IntRefinement: RefinementNone} }
func PositiveInt() Descriptor {
	return Descriptor{Kind: KindInt, IntRefinement: RefinementPositive}
}
func NegativeInt() Descriptor {
	return Descriptor{Kind: KindInt, IntRefinement: RefinementNegative}
}

func Sequence(of Descriptor) Descriptor { return Descriptor{Kind: KindSequence, Of: &of} }

func Mapping(key, of Descriptor) Descriptor {
	return Descriptor{Kind: KindMapping, KeyOf: &key, Of: &of}
}

func Record(identity reflect.Type) Descriptor {
	return Descriptor{Kind: KindRecord, Identity: identity}
}

func Enum(identity reflect.Type) Descriptor {
	return Descriptor{Kind: KindEnum, Identity: identity}
}

func Union(ds ...Descriptor) Descriptor    { return Descriptor{Kind: KindUnion, Components: ds} }
func Intersection(ds ...Descriptor) Descriptor {
	return Descriptor{Kind: KindIntersection, Components: ds}
}

// FromReflectType derives the descriptor a free transformer's first
// parameter implies, purely from its static Go type. Struct types resolve
// to a Record with that identity. Refinements are not derived here (an Int
// descriptor always carries RefinementNone; a caller sets one via
// registry.WithRefinement, since Go's type system cannot express
// positive-int/negative-int on its own), and a named enum type resolves to
// its underlying kind, never to an Enum descriptor.
func FromReflectType(t reflect.Type) Descriptor {
	if t == nil {
		return Any()
	}
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return Any()
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int()
	case reflect.Float32, reflect.Float64:
		return Float()
	case reflect.String:
		return String()
	case reflect.Slice, reflect.Array:
		return Sequence(Any())
	case reflect.Map:
		return Mapping(Any(), Any())
	case reflect.Struct:
		return Record(t)
	case reflect.Ptr:
		inner := FromReflectType(t.Elem())
		return inner
	case reflect.Func:
		return Callable()
	default:
		return Any()
	}
}
