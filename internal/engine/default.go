package engine

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arborist-dev/normalize/internal/iterx"
	"github.com/arborist-dev/normalize/internal/nerrors"
	"github.com/arborist-dev/normalize/internal/node"
	"github.com/arborist-dev/normalize/internal/reflectx"
	"github.com/arborist-dev/normalize/internal/registry"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	locationType = reflect.TypeOf(time.Location{})
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	sequencerType = reflect.TypeOf((*iterx.Sequencer)(nil)).Elem()
)

// renderDefault implements §4.5's "default step by kind" table. It is
// always the innermost link of a dispatch chain, so anything it recurses
// into has already run its own, independent dispatch (via s.normalize),
// meaning wrapping transformers at this level see already-normalized
// children, per §4.5's ordering requirement.
func (s *session) renderDefault(ctx context.Context, v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}

	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if kind, names, ok := s.eng.snap.LookupEnum(v.Type()); ok {
			return renderEnum(kind, names, v)
		}
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.String:
		if kind, names, ok := s.eng.snap.LookupEnum(v.Type()); ok {
			return renderEnum(kind, names, v)
		}
		return v.String(), nil
	case reflect.Struct:
		if v.Type().Implements(sequencerType) {
			return s.renderIterable(ctx, v)
		}
		return s.renderStruct(ctx, v)
	case reflect.Slice, reflect.Array:
		return s.renderSequence(ctx, v)
	case reflect.Map:
		return s.renderMapping(ctx, v)
	default:
		if v.Type().Implements(sequencerType) {
			return s.renderIterable(ctx, v)
		}
		return nil, nerrors.TypeUnhandled(v.Kind().String())
	}
}

func renderEnum(kind registry.EnumKind, names map[any]string, v reflect.Value) (any, error) {
	switch kind {
	case registry.EnumString:
		return v.String(), nil
	case registry.EnumInt:
		return v.Int(), nil
	default:
		if name, ok := names[v.Interface()]; ok {
			return name, nil
		}
		return v.String(), nil
	}
}

func (s *session) renderStruct(ctx context.Context, v reflect.Value) (any, error) {
	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		return t.Format("2006-01-02T15:04:05.000000-07:00"), nil
	}
	if v.Type() == locationType {
		addr := reflectx.Addressable(v)
		return addr.Addr().Interface().(*time.Location).String(), nil
	}
	if v.Type() == decimalType {
		// Rendered as a string, not a float64, to avoid the precision
		// loss a float64 default step would silently introduce. The
		// value's own scale is kept, trailing fractional zeros included.
		dec := v.Interface().(decimal.Decimal)
		if dec.Exponent() < 0 {
			return dec.StringFixed(-dec.Exponent()), nil
		}
		return dec.String(), nil
	}

	addressable := reflectx.Addressable(v)

	out := node.NewMap()
	for _, fi := range fieldsOf(v.Type()) {
		fieldVal := reflectx.Read(addressable, fi)

		fieldAttrs := s.eng.snap.FieldAttributes(v.Type(), fi.Name)

		baseName := reflectx.TagName(v.Type(), fi)
		keyedAttrs := keyTransformersOnly(fieldAttrs)
		key, err := keyChain(s.eng.snap.FreeKeyTransformers(), keyedAttrs, baseName)
		if err != nil {
			return nil, fmt.Errorf("normalize: field %s.%s: %w", v.Type().Name(), fi.Name, err)
		}

		valueAttrs := valueTransformersOnly(fieldAttrs)
		child, err := s.normalize(ctx, fieldVal, valueAttrs)
		if err != nil {
			return nil, err
		}
		out.Set(key, child)
	}
	return out, nil
}

func (s *session) renderSequence(ctx context.Context, v reflect.Value) (any, error) {
	out := make(node.Seq, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		child, err := s.normalize(ctx, v.Index(i), nil)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func (s *session) renderMapping(ctx context.Context, v reflect.Value) (any, error) {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	out := node.NewMap()
	for _, k := range keys {
		child, err := s.normalize(ctx, v.MapIndex(k), nil)
		if err != nil {
			return nil, err
		}
		out.Set(k.Interface(), child)
	}
	return out, nil
}

func (s *session) renderIterable(ctx context.Context, v reflect.Value) (any, error) {
	seqr := v.Interface().(iterx.Sequencer)
	out := make(node.Seq, 0)
	var innerErr error
	for item := range seqr.Seq() {
		child, err := s.normalize(ctx, reflect.ValueOf(item), nil)
		if err != nil {
			innerErr = err
			break
		}
		out = append(out, child)
	}
	if innerErr != nil {
		return nil, innerErr
	}
	return out, nil
}
