package descriptor

import (
	"reflect"

	"github.com/arborist-dev/normalize/internal/iterx"
)

var sequencerType = reflect.TypeOf((*iterx.Sequencer)(nil)).Elem()

// Match answers "does value V satisfy parameter descriptor D?" per §4.1.
// It never coerces; it only decides whether a transformer is eligible to
// run. V must already be the dereferenced, interface-unwrapped subject.
func Match(d Descriptor, v reflect.Value) bool {
	if !v.IsValid() {
		return d.Kind == KindAny || d.Kind == KindNull
	}
	switch d.Kind {
	case KindAny:
		return true
	case KindAnyObject:
		return v.Kind() == reflect.Struct || v.Kind() == reflect.Map
	case KindNull:
		return isNilish(v)
	case KindBool:
		return v.Kind() == reflect.Bool
	case KindInt:
		if !isIntKind(v.Kind()) {
			return false
		}
		switch d.IntRefinement {
		case RefinementPositive:
			return signedOrUnsigned(v) > 0
		case RefinementNegative:
			return signedOrUnsigned(v) < 0
		default:
			return true
		}
	case KindFloat:
		return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
	case KindString:
		return v.Kind() == reflect.String
	case KindSequence:
		return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
	case KindMapping:
		return v.Kind() == reflect.Map
	case KindRecord:
		return matchesRecord(d.Identity, v)
	case KindEnum:
		return v.Type() == d.Identity
	case KindUnion:
		for _, c := range d.Components {
			if Match(c, v) {
				return true
			}
		}
		return false
	case KindIntersection:
		for _, c := range d.Components {
			if !Match(c, v) {
				return false
			}
		}
		return len(d.Components) > 0
	case KindIterable:
		return v.IsValid() && v.Type().Implements(sequencerType)
	case KindCallable:
		return v.Kind() == reflect.Func
	default:
		return false
	}
}

func isNilish(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	case reflect.Invalid:
		return true
	default:
		return false
	}
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

func signedOrUnsigned(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

// matchesRecord walks the embedded (anonymous) field chain depth-first —
// Go's nearest analogue to class ancestry, per [R1] — looking for the
// target identity either as V's own concrete type or as an embedded
// struct anywhere in that chain.
func matchesRecord(identity reflect.Type, v reflect.Value) bool {
	if v.Kind() != reflect.Struct {
		return false
	}
	if identity == nil {
		return true
	}
	if v.Type() == identity {
		return true
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type == identity {
			return true
		}
		if f.Type.Kind() == reflect.Struct && matchesRecord(identity, v.Field(i)) {
			return true
		}
	}
	return false
}
