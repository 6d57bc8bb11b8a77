package engine

import (
	"errors"

	"github.com/arborist-dev/normalize/attribute"
	"github.com/arborist-dev/normalize/internal/dispatch"
	"github.com/arborist-dev/normalize/internal/nerrors"
	"github.com/arborist-dev/normalize/internal/registry"
)

// keyTransformersOnly filters a field's attribute instances down to the
// ones that participate in key-chain composition.
func keyTransformersOnly(attrs []any) []any {
	var out []any
	for _, a := range attrs {
		if _, ok := a.(attribute.KeyTransformer); ok {
			out = append(out, a)
			continue
		}
		if _, ok := a.(attribute.NamedKeyTransformer); ok {
			out = append(out, a)
		}
	}
	return out
}

// valueTransformersOnly filters a field's attribute instances down to the
// ones that participate in the value dispatch chain.
func valueTransformersOnly(attrs []any) []any {
	var out []any
	for _, a := range attrs {
		if _, ok := a.(attribute.ValueTransformer); ok {
			out = append(out, a)
		}
	}
	return out
}

func keyChain(freeKeyRegs []registry.Registration, attrs []any, original string) (any, error) {
	return dispatch.BuildKeyChain(freeKeyRegs, attrs, original)
}

// logFields expands err into the structured code/kind/symbol triple a
// *nerrors.Error carries, so a log line identifies which of the stable
// error codes fired without the caller having to parse err's message.
func logFields(err error) []any {
	var nerr *nerrors.Error
	if errors.As(err, &nerr) {
		return []any{"code", nerr.Code, "kind", nerr.Kind, "symbol", nerr.Symbol, "error", err}
	}
	return []any{"error", err}
}
