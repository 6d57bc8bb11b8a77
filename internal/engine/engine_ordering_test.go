package engine_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/normalize/attribute"
	"github.com/arborist-dev/normalize/internal/engine"
	"github.com/arborist-dev/normalize/internal/node"
	"github.com/arborist-dev/normalize/internal/registry"
)

// doubler is an attribute-bound ValueTransformer: it doubles whatever its
// continuation produces.
type doubler struct{}

func (doubler) Normalize(v any, next attribute.Next) (any, error) {
	result, err := next.Apply()
	if err != nil {
		return nil, err
	}
	return result.(int64) * 2, nil
}

type taggedInt struct {
	Value int
}

// TestLayerOrdering resolves §9's open question: a free transformer wraps
// an attribute-bound transformer, which in turn wraps the default step.
// The subject starts at 5; the default step leaves it as int64(5); the
// doubler attribute turns that into 10; the free transformer, run
// outermost, adds 1 to whatever the rest of the chain produced, landing on
// 11 — not (5+1)*2 = 12 computed in the other order, and not a sum that
// skips a layer.
func TestLayerOrdering(t *testing.T) {
	t.Run("A free transformer's next reaches the attribute-bound transformer, not straight to default", func(t *testing.T) {
		reg := registry.New()
		require.NoError(t, reg.RegisterAttribute(reflect.TypeOf((*attribute.ValueTransformer)(nil)).Elem()))
		reg.RegisterFieldAttribute(reflect.TypeOf(taggedInt{}), "Value", doubler{})
		require.NoError(t, reg.Register(func(v int, next func() (any, error)) (any, error) {
			result, err := next()
			if err != nil {
				return nil, err
			}
			return result.(int64) + 1, nil
		}))

		eng := engine.New(reg.Snapshot(), nil, 0)
		result, err := eng.Normalize(context.Background(), taggedInt{Value: 5})
		require.NoError(t, err)

		m, ok := result.(*node.Map)
		require.True(t, ok)
		v, present := m.Get("Value")
		require.True(t, present)
		require.Equal(t, int64(11), v)
	})
}
