// Package nerrors carries the normalizer's stable error taxonomy, adapted
// from the teacher's HTTP problem document (engine/core/problem.go) into a
// plain Go error value since this library has no HTTP surface to render
// one against.
package nerrors

import "fmt"

// Stable numeric codes. These are part of the public contract: callers may
// match on them with errors.As and a switch on Code, so they must never be
// renumbered.
const (
	CodeTypeUnhandled                     int64 = 1695062925
	CodeCircularReference                 int64 = 1695064016
	CodeTransformerMissingParameter       int64 = 1695064946
	CodeTransformerTooManyParameters      int64 = 1695065433
	CodeTransformerSecondParamNotCallable int64 = 1695065710
	CodeKeyTransformerTooManyParameters   int64 = 1701701102
	CodeKeyTransformerParamWrongType      int64 = 1701706316
	CodeMaxDepthExceeded                  int64 = 1706820441
)

// Error is the normalizer's coded error type. Every traversal failure of a
// Normalize call and every transformer signature rejection is one of
// these, possibly wrapped. Passing a non-function to a Register method, an
// identity implementing no attribute interface to RegisterAttribute, or a
// cancelled context yields a plain error instead.
type Error struct {
	Code    int64
	Kind    string
	Message string
	Symbol  string
}

func (e *Error) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("%s (code %d, %s): %s", e.Kind, e.Code, e.Symbol, e.Message)
	}
	return fmt.Sprintf("%s (code %d): %s", e.Kind, e.Code, e.Message)
}

// Is lets callers use errors.Is(err, nerrors.New(nerrors.CodeCircularReference, ...))
// as a sentinel-style comparison keyed only on Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code int64, kind, symbol, format string, args ...any) *Error {
	return &Error{Code: code, Kind: kind, Symbol: symbol, Message: fmt.Sprintf(format, args...)}
}

func TypeUnhandled(kindName string) *Error {
	return New(CodeTypeUnhandled, "TypeUnhandledByNormalizer", kindName,
		"no default normalization exists for kind %q and no transformer matched it", kindName)
}

func CircularReference(typeName string) *Error {
	return New(CodeCircularReference, "CircularReferenceFoundDuringNormalization", typeName,
		"circular reference detected while normalizing a value of type %s", typeName)
}

func TransformerMissingParameter(symbol string) *Error {
	return New(CodeTransformerMissingParameter, "TransformerMissingParameter", symbol,
		"transformer %s must declare at least one parameter", symbol)
}

func TransformerTooManyParameters(symbol string) *Error {
	return New(CodeTransformerTooManyParameters, "TransformerTooManyParameters", symbol,
		"transformer %s must declare at most two parameters", symbol)
}

func TransformerSecondParamNotCallable(symbol string) *Error {
	return New(CodeTransformerSecondParamNotCallable, "TransformerSecondParameterNotCallable", symbol,
		"transformer %s's second parameter must be a callable next continuation", symbol)
}

func KeyTransformerTooManyParameters(symbol string) *Error {
	return New(CodeKeyTransformerTooManyParameters, "KeyTransformerTooManyParameters", symbol,
		"key transformer %s must declare at most one parameter", symbol)
}

func KeyTransformerParamWrongType(symbol string) *Error {
	return New(CodeKeyTransformerParamWrongType, "KeyTransformerParameterWrongType", symbol,
		"key transformer %s's parameter must be a string or integer type", symbol)
}

// MaxDepthExceeded is raised by the Engine, not the core traversal spec —
// it backs the ambient normalize.WithMaxDepth guard, a recursion bound a
// caller opts into rather than a universal invariant every call enforces.
func MaxDepthExceeded(limit int) *Error {
	return New(CodeMaxDepthExceeded, "MaxDepthExceeded", "",
		"normalization depth exceeded the configured limit of %d", limit)
}
