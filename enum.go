package normalize

import (
	"reflect"

	"github.com/arborist-dev/normalize/internal/registry"
)

// EnumKind selects which of [D1]'s three renderings a registered enum
// type uses.
type EnumKind = registry.EnumKind

const (
	EnumPure   = registry.EnumPure
	EnumString = registry.EnumString
	EnumInt    = registry.EnumInt
)

// RegisterEnum marks T as an enumeration on n, so the Engine's default
// step renders its values per kind: EnumPure looks up the declared name
// in names, EnumString renders the backing string, EnumInt the backing
// integer. Go has no native enum type, so this is the mechanism a caller
// uses to opt a typed constant set into enum rendering — see [D1]. It is
// a free function, not a method, because Go methods cannot carry their
// own type parameters.
func RegisterEnum[T comparable](n *Normalizer, kind EnumKind, names map[T]string) {
	var zero T
	t := reflect.TypeOf(zero)
	converted := make(map[any]string, len(names))
	for k, v := range names {
		converted[k] = v
	}
	n.reg.RegisterEnum(t, kind, converted)
}
