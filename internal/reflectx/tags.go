package reflectx

import "reflect"

// TagName resolves the emitted field name for fi, honoring a
// `normalize:"..."` struct tag if present and falling back to fi.Name
// otherwise. A tag of exactly "-" is treated as absent rather than as a
// literal key named "-", matching the convention json/yaml use for their
// own tags.
func TagName(_ reflect.Type, fi FieldInfo) string {
	if tag, ok := fi.Tag.Lookup("normalize"); ok && tag != "" && tag != "-" {
		return tag
	}
	return fi.Name
}
