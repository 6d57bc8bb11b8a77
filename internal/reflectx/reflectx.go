// Package reflectx implements the Reflection Adapter: ordered, ancestor-
// first field enumeration over a declared record type, with unexported
// fields included per the source spec's "public and non-public fields"
// requirement. Grounded in pkg/ref/resolver_new.go's field-walking
// (elem.NumField(), fieldType.IsExported(), fieldType.Tag.Get(...)) and
// pkg/ref/withref.go's per-type "field plan" caching comment.
package reflectx

import (
	"reflect"
	"sync"
)

// FieldInfo describes one flattened struct field in declaration order.
type FieldInfo struct {
	Name       string
	Index      []int // for reflect.Value.FieldByIndex
	Tag        reflect.StructTag
	Type       reflect.Type
	Exported   bool
	FromEmbeds bool
}

var fieldPlanCache sync.Map // reflect.Type -> []FieldInfo

// Fields returns t's fields ancestor-first: embedded structs are recursed
// into before the enclosing type's own declared fields, preserving
// declaration order within each level, exactly as §4.2 requires.
func Fields(t reflect.Type) []FieldInfo {
	if cached, ok := fieldPlanCache.Load(t); ok {
		return cached.([]FieldInfo)
	}
	plan := buildFields(t, nil)
	fieldPlanCache.Store(t, plan)
	return plan
}

func buildFields(t reflect.Type, prefix []int) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var embedded, own []FieldInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(append([]int{}, prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			embedded = append(embedded, buildFields(f.Type, idx)...)
			continue
		}
		own = append(own, FieldInfo{
			Name:     f.Name,
			Index:    idx,
			Tag:      f.Tag,
			Type:     f.Type,
			Exported: f.IsExported(),
		})
	}
	return append(embedded, own...)
}

// Read returns the field's value, materializing unexported fields through
// the unsafe round-trip in unsafe_field.go so the result is always safe to
// call Interface() on. v must be addressable (the engine achieves this by
// copying the subject into a freshly allocated pointer before recursing
// into its fields).
func Read(v reflect.Value, fi FieldInfo) reflect.Value {
	fv := v.FieldByIndex(fi.Index)
	if fi.Exported {
		return fv
	}
	return forceExported(fv)
}

// Addressable returns a settable copy of v, allocating a new pointer and
// copying v's contents into it when v itself isn't addressable. This is
// the precondition Read relies on for unexported-field access.
func Addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)
	return ptr.Elem()
}
