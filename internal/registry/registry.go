// Package registry implements the Transformer Registry: the mutable,
// concurrency-safe store of free-standing transformer registrations,
// attribute identities, and explicit class/field attribute attachments.
// Grounded in engine/autoload/registry.go's sync.RWMutex-guarded
// map-of-maps and its structured-error construction style, adapted from
// autoloaded resource configs to transformer registrations.
package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/arborist-dev/normalize/attribute"
	"github.com/arborist-dev/normalize/internal/descriptor"
	"github.com/arborist-dev/normalize/internal/nerrors"
)

type RegKind int

const (
	KindValue RegKind = iota
	KindKey
)

// Step is the uniform shape every value-transformer invocation has, free
// or attribute-bound: given the subject and a continuation, produce a
// normalized (but not yet tree-shaped) result or an error.
type Step func(subject reflect.Value, next attribute.Next) (any, error)

// Registration mirrors §3's Transformer Registration entity.
type Registration struct {
	Symbol         string
	Param          descriptor.Descriptor
	TakesNext      bool
	Priority       int
	InsertionIndex int64
	Kind           RegKind
	Invoke         Step
}

type Option func(*regOptions)

type regOptions struct {
	priority   int
	refinement *descriptor.IntRefinement
}

func WithPriority(p int) Option { return func(o *regOptions) { o.priority = p } }

func WithRefinement(r descriptor.IntRefinement) Option {
	return func(o *regOptions) { o.refinement = &r }
}

// EnumKind mirrors [D1]'s three enum renderings.
type EnumKind int

const (
	EnumPure EnumKind = iota
	EnumString
	EnumInt
)

type enumInfo struct {
	kind  EnumKind
	names map[any]string
}

type Registry struct {
	mu sync.RWMutex

	free    []Registration
	counter atomic.Int64

	// attributeGate records identities (concrete types or interfaces)
	// explicitly registered as eligible for dispatch, per invariant 6.
	attributeGate map[reflect.Type]bool

	classAttrs map[reflect.Type][]any
	fieldAttrs map[fieldKey][]any

	enums map[reflect.Type]enumInfo
}

type fieldKey struct {
	t     reflect.Type
	field string
}

func New() *Registry {
	return &Registry{
		attributeGate: map[reflect.Type]bool{},
		classAttrs:    map[reflect.Type][]any{},
		fieldAttrs:    map[fieldKey][]any{},
		enums:         map[reflect.Type]enumInfo{},
	}
}

// Register validates and stores a free-standing transformer per §4.3:
// arity must be 1 or 2; if 2, the second parameter must be a callable of
// the concrete shape func() (any, error), the only "next" shape this
// module supports since reflect.MakeFunc needs a fixed signature to
// synthesize an adapter against.
func (r *Registry) Register(fn any, opts ...Option) error {
	o := &regOptions{}
	for _, opt := range opts {
		opt(o)
	}

	rv := reflect.ValueOf(fn)
	symbol := rv.Type().String()
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("registry: Register expects a function, got %s", rv.Kind())
	}
	ft := rv.Type()
	n := ft.NumIn()
	if n == 0 {
		return nerrors.TransformerMissingParameter(symbol)
	}
	if n > 2 {
		return nerrors.TransformerTooManyParameters(symbol)
	}
	takesNext := n == 2
	if takesNext && !isNextFuncShape(ft.In(1)) {
		return nerrors.TransformerSecondParamNotCallable(symbol)
	}

	paramType := ft.In(0)
	param := descriptor.FromReflectType(paramType)
	if o.refinement != nil {
		param.IntRefinement = *o.refinement
	}

	insertion := r.counter.Add(1)
	invoke := buildFreeInvoke(rv, ft, paramType, takesNext)

	reg := Registration{
		Symbol:         symbol,
		Param:          param,
		TakesNext:      takesNext,
		Priority:       o.priority,
		InsertionIndex: insertion,
		Kind:           KindValue,
		Invoke:         invoke,
	}

	r.mu.Lock()
	r.free = append(r.free, reg)
	r.mu.Unlock()
	return nil
}

// RegisterKeyTransformer validates and stores a free-standing key
// transformer per §4.3's "key transformers ∈ {0, 1} param (if present,
// string or integer)". Unlike Register, a key transformer never takes a
// next continuation — the key chain is a plain fold, not a wrapping
// chain — so arity is capped at one rather than two.
func (r *Registry) RegisterKeyTransformer(fn any, opts ...Option) error {
	o := &regOptions{}
	for _, opt := range opts {
		opt(o)
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("registry: RegisterKeyTransformer expects a function, got %s", rv.Kind())
	}
	ft := rv.Type()
	symbol := ft.String()
	n := ft.NumIn()
	if n > 1 {
		return nerrors.KeyTransformerTooManyParameters(symbol)
	}
	if n == 1 {
		k := ft.In(0).Kind()
		if k != reflect.String && !isIntKind(k) {
			return nerrors.KeyTransformerParamWrongType(symbol)
		}
	}

	insertion := r.counter.Add(1)
	reg := Registration{
		Symbol:         symbol,
		Priority:       o.priority,
		InsertionIndex: insertion,
		Kind:           KindKey,
		Invoke:         buildFreeKeyInvoke(rv, ft, n),
	}

	r.mu.Lock()
	r.free = append(r.free, reg)
	r.mu.Unlock()
	return nil
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func buildFreeKeyInvoke(rv reflect.Value, ft reflect.Type, arity int) Step {
	return func(subject reflect.Value, _ attribute.Next) (any, error) {
		args := make([]reflect.Value, 0, 1)
		if arity == 1 {
			args = append(args, convertSubject(subject, ft.In(0)))
		}
		out := rv.Call(args)
		var err error
		if len(out) > 1 {
			if e, ok := out[1].Interface().(error); ok {
				err = e
			}
		}
		if len(out) == 0 {
			return nil, err
		}
		return out[0].Interface(), err
	}
}

func isNextFuncShape(t reflect.Type) bool {
	if t.Kind() != reflect.Func {
		return false
	}
	if t.NumIn() != 0 || t.NumOut() != 2 {
		return false
	}
	errType := reflect.TypeOf((*error)(nil)).Elem()
	return t.Out(1).Implements(errType)
}

func buildFreeInvoke(rv reflect.Value, ft reflect.Type, paramType reflect.Type, takesNext bool) Step {
	return func(subject reflect.Value, next attribute.Next) (any, error) {
		args := make([]reflect.Value, 0, 2)
		args = append(args, convertSubject(subject, paramType))
		if takesNext {
			nextFn := reflect.MakeFunc(ft.In(1), func(_ []reflect.Value) []reflect.Value {
				res, err := next.Apply()
				errVal := reflect.New(reflect.TypeOf((*error)(nil)).Elem()).Elem()
				if err != nil {
					errVal = reflect.ValueOf(err)
				}
				resVal := reflect.New(ft.In(1).Out(0)).Elem()
				if res != nil {
					resVal.Set(reflect.ValueOf(res))
				}
				return []reflect.Value{resVal, errVal}
			})
			args = append(args, nextFn)
		}
		out := rv.Call(args)
		var err error
		if len(out) > 1 {
			if e, ok := out[1].Interface().(error); ok {
				err = e
			}
		}
		if len(out) == 0 {
			return nil, err
		}
		return out[0].Interface(), err
	}
}

func convertSubject(subject reflect.Value, want reflect.Type) reflect.Value {
	if !subject.IsValid() {
		return reflect.Zero(want)
	}
	if subject.Type().AssignableTo(want) {
		return subject
	}
	if subject.Type().ConvertibleTo(want) {
		return subject.Convert(want)
	}
	return subject
}

var (
	valueTransformerType    = reflect.TypeOf((*attribute.ValueTransformer)(nil)).Elem()
	keyTransformerType      = reflect.TypeOf((*attribute.KeyTransformer)(nil)).Elem()
	namedKeyTransformerType = reflect.TypeOf((*attribute.NamedKeyTransformer)(nil)).Elem()
)

// RegisterAttribute gates identity (a concrete attribute type or an
// interface it implements) for dispatch consideration per invariant 6.
// identity must itself be an interface, or a concrete type implementing
// one of the three attribute interfaces; anything else can never
// contribute a transformer, so it is rejected eagerly rather than
// silently never firing.
func (r *Registry) RegisterAttribute(identity reflect.Type) error {
	if identity.Kind() != reflect.Interface &&
		!identity.Implements(valueTransformerType) &&
		!identity.Implements(keyTransformerType) &&
		!identity.Implements(namedKeyTransformerType) {
		return fmt.Errorf("registry: RegisterAttribute: %s implements none of ValueTransformer, KeyTransformer, NamedKeyTransformer", identity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attributeGate[identity] = true
	return nil
}

// RegisterClassAttribute attaches instance to every value whose declaring
// type is t (or embeds t), discovered by the engine at dispatch time.
func (r *Registry) RegisterClassAttribute(t reflect.Type, instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classAttrs[t] = append(r.classAttrs[t], instance)
}

// RegisterFieldAttribute attaches instance to the named field of t.
func (r *Registry) RegisterFieldAttribute(t reflect.Type, field string, instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fieldKey{t: t, field: field}
	r.fieldAttrs[key] = append(r.fieldAttrs[key], instance)
}

func (r *Registry) RegisterEnum(t reflect.Type, kind EnumKind, names map[any]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enums[t] = enumInfo{kind: kind, names: names}
}

// Snapshot freezes the registry's current contents for one Normalize
// call, matching §5's "the façade hands a frozen snapshot to the Engine."
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	free := make([]Registration, len(r.free))
	copy(free, r.free)
	sort.SliceStable(free, func(i, j int) bool {
		if free[i].Priority != free[j].Priority {
			return free[i].Priority > free[j].Priority
		}
		return free[i].InsertionIndex < free[j].InsertionIndex
	})

	gate := make(map[reflect.Type]bool, len(r.attributeGate))
	for k, v := range r.attributeGate {
		gate[k] = v
	}
	classAttrs := make(map[reflect.Type][]any, len(r.classAttrs))
	for k, v := range r.classAttrs {
		classAttrs[k] = append([]any{}, v...)
	}
	fieldAttrs := make(map[fieldKey][]any, len(r.fieldAttrs))
	for k, v := range r.fieldAttrs {
		fieldAttrs[k] = append([]any{}, v...)
	}
	enums := make(map[reflect.Type]enumInfo, len(r.enums))
	for k, v := range r.enums {
		enums[k] = v
	}

	return &Snapshot{
		free:          free,
		attributeGate: gate,
		classAttrs:    classAttrs,
		fieldAttrs:    fieldAttrs,
		enums:         enums,
	}
}
