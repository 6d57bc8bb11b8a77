package registry_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/normalize/internal/registry"
)

func TestRegister(t *testing.T) {
	t.Run("Should assign increasing insertion indices", func(t *testing.T) {
		r := registry.New()
		require.NoError(t, r.Register(func(v int) int { return v }))
		require.NoError(t, r.Register(func(v string) string { return v }))
		snap := r.Snapshot()
		regs := snap.FreeValueTransformers()
		require.Len(t, regs, 2)
		assert.Less(t, regs[0].InsertionIndex, regs[1].InsertionIndex)
	})

	t.Run("Should reject a transformer with no parameters", func(t *testing.T) {
		r := registry.New()
		err := r.Register(func() int { return 0 })
		require.Error(t, err)
	})

	t.Run("Should reject a transformer with too many parameters", func(t *testing.T) {
		r := registry.New()
		err := r.Register(func(a, b, c int) int { return a })
		require.Error(t, err)
	})

	t.Run("Should reject a transformer whose second parameter is not callable", func(t *testing.T) {
		r := registry.New()
		err := r.Register(func(v int, extra string) int { return v })
		require.Error(t, err)
	})

	t.Run("Should accept a transformer with a func()(any,error) continuation", func(t *testing.T) {
		r := registry.New()
		err := r.Register(func(v int, next func() (any, error)) (any, error) {
			return next()
		})
		require.NoError(t, err)
	})

	t.Run("Should sort by priority desc then insertion asc", func(t *testing.T) {
		r := registry.New()
		require.NoError(t, r.Register(func(v string) string { return v + "A" }, registry.WithPriority(0)))
		require.NoError(t, r.Register(func(v string) string { return v + "B" }, registry.WithPriority(20)))
		require.NoError(t, r.Register(func(v string) string { return v + "C" }, registry.WithPriority(-10)))
		snap := r.Snapshot()
		regs := snap.FreeValueTransformers()
		require.Len(t, regs, 3)
		assert.Equal(t, 20, regs[0].Priority)
		assert.Equal(t, 0, regs[1].Priority)
		assert.Equal(t, -10, regs[2].Priority)
	})
}

func TestRegisterAttribute(t *testing.T) {
	t.Run("Should reject an identity implementing no attribute interface", func(t *testing.T) {
		r := registry.New()
		err := r.RegisterAttribute(reflect.TypeOf(42))
		assert.Error(t, err)
	})
}
