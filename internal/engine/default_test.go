package engine_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/normalize/internal/registry"
)

// TestNormalizeDecimal covers the decimal.Decimal default-rendering rule:
// it always renders as its exact decimal string, never as a float64,
// because a float64 default step would silently lose precision digits
// decimal.Decimal exists specifically to preserve.
func TestNormalizeDecimal(t *testing.T) {
	t.Run("Renders as its exact string form, not a float64", func(t *testing.T) {
		reg := registry.New()
		eng := newEngine(t, reg)
		d := decimal.RequireFromString("19.9900")
		result, err := eng.Normalize(context.Background(), d)
		require.NoError(t, err)
		require.Equal(t, "19.9900", result)
	})

	t.Run("Preserves precision a float64 round-trip would lose", func(t *testing.T) {
		reg := registry.New()
		eng := newEngine(t, reg)
		d := decimal.RequireFromString("0.1000000000000000000000000001")
		result, err := eng.Normalize(context.Background(), d)
		require.NoError(t, err)
		require.Equal(t, "0.1000000000000000000000000001", result)
	})
}
