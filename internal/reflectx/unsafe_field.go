package reflectx

import (
	"reflect"
	"unsafe"
)

// forceExported reads an unexported struct field's value despite reflect's
// refusal to call Interface() on a Value obtained via an unexported
// Field(i). This is the standard library workaround documented in [R3]:
// re-anchor the field's address through reflect.NewAt, which sidesteps the
// read-only flag reflect attaches to unexported fields. f must be
// addressable; callers get that via Addressable before calling Read.
func forceExported(f reflect.Value) reflect.Value {
	if !f.CanAddr() {
		return f
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}
