package dispatch_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/normalize/attribute"
	"github.com/arborist-dev/normalize/internal/descriptor"
	"github.com/arborist-dev/normalize/internal/dispatch"
	"github.com/arborist-dev/normalize/internal/registry"
)

func step(suffix string, priority int, insertion int64) registry.Registration {
	return registry.Registration{
		Priority:       priority,
		InsertionIndex: insertion,
		Param:          descriptor.Any(),
		Invoke: func(subject reflect.Value, next attribute.Next) (any, error) {
			prev, err := next.Apply()
			if err != nil {
				return nil, err
			}
			if prev == nil {
				prev = ""
			}
			return prev.(string) + suffix, nil
		},
	}
}

func TestChainOrdering(t *testing.T) {
	t.Run("Should run higher priority outermost, scenario 3", func(t *testing.T) {
		// priorities -20, -10, 0, 20 on "foo": -20 returns "foo" (the
		// seed, via the default fallback), -10 appends "*", 0 appends
		// "!", 20 appends "?" => "foo*!?"
		regs := []registry.Registration{
			step("", -20, 0),
			step("*", -10, 1),
			step("!", 0, 2),
			step("?", 20, 3),
		}
		chain := buildChainFromRegs(regs, "foo")
		result, err := chain.Run(reflect.ValueOf("foo"))
		require.NoError(t, err)
		require.Equal(t, "foo*!?", result)
	})

	t.Run("Should break ties by insertion order, scenario 4", func(t *testing.T) {
		// three same-priority transformers A(*), B(!), C(?) registered in
		// that order => C runs innermost, A outermost => "foo?!*"
		regs := []registry.Registration{
			step("*", 0, 0),
			step("!", 0, 1),
			step("?", 0, 2),
		}
		chain := buildChainFromRegs(regs, "foo")
		result, err := chain.Run(reflect.ValueOf("foo"))
		require.NoError(t, err)
		require.Equal(t, "foo?!*", result)
	})
}

// buildChainFromRegs mimics what registry.Snapshot would hand dispatch:
// registrations already sorted priority desc, insertion asc.
func buildChainFromRegs(regs []registry.Registration, seed string) *dispatch.Chain {
	sorted := append([]registry.Registration{}, regs...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Priority > sorted[i].Priority ||
				(sorted[j].Priority == sorted[i].Priority && sorted[j].InsertionIndex < sorted[i].InsertionIndex) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	steps := make([]registry.Step, len(sorted))
	for i, r := range sorted {
		steps[i] = r.Invoke
	}
	return dispatch.NewChain(steps, func(reflect.Value) (any, error) { return seed, nil })
}
