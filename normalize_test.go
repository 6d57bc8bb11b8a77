package normalize_test

import (
	"context"
	"iter"
	"testing"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/normalize"
	"github.com/arborist-dev/normalize/internal/nerrors"
)

type Color int

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

type Status string

const StatusActive Status = "active"

type numberSet struct {
	nums []int
}

func (s numberSet) Seq() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, n := range s.nums {
			if !yield(n) {
				return
			}
		}
	}
}

func TestNormalizeEnums(t *testing.T) {
	t.Run("Should render an EnumPure value by its declared name", func(t *testing.T) {
		n := normalize.New()
		normalize.RegisterEnum(n, normalize.EnumPure, map[Color]string{
			ColorRed:   "red",
			ColorGreen: "green",
			ColorBlue:  "blue",
		})
		tree, err := n.Normalize(context.Background(), ColorGreen)
		require.NoError(t, err)
		require.Equal(t, "green", tree.Root())
	})

	t.Run("Should render an EnumString value by its backing string", func(t *testing.T) {
		n := normalize.New()
		normalize.RegisterEnum(n, normalize.EnumString, map[Status]string{
			StatusActive: "active",
		})
		tree, err := n.Normalize(context.Background(), StatusActive)
		require.NoError(t, err)
		require.Equal(t, "active", tree.Root())
	})
}

func TestNormalizeSequencer(t *testing.T) {
	t.Run("Should render a struct implementing Sequencer as an ordered sequence, not a record", func(t *testing.T) {
		n := normalize.New()
		tree, err := n.Normalize(context.Background(), numberSet{nums: []int{1, 2, 3}})
		require.NoError(t, err)
		plain := tree.ToPlain()
		seq, ok := plain.([]any)
		require.True(t, ok)
		require.Equal(t, []any{int64(1), int64(2), int64(3)}, seq)
	})
}

type taggedRecord struct {
	FirstName string `normalize:"first_name"`
	LastName  string
}

func TestNormalizeStructTags(t *testing.T) {
	t.Run("Should honor a normalize struct tag for the field's default key", func(t *testing.T) {
		n := normalize.New()
		tree, err := n.Normalize(context.Background(), taggedRecord{FirstName: "Ada", LastName: "Lovelace"})
		require.NoError(t, err)
		plain := tree.ToPlain()
		m, ok := plain.(*orderedmap.OrderedMap[any, any])
		require.True(t, ok)
		first, present := m.Get("first_name")
		require.True(t, present)
		require.Equal(t, "Ada", first)
		last, present := m.Get("LastName")
		require.True(t, present)
		require.Equal(t, "Lovelace", last)
	})
}

type selfRef struct {
	Next *selfRef
}

// TestFacadeDefaultLoggerSafety drives normalize.New() with no WithLogger
// option through a failing Normalize call. Before this logger was fixed,
// the package-level default logger a bare New() picks up was a non-nil
// Logger interface wrapping a nil *loggerImpl, and logging the failure
// panicked on a nil-receiver dereference instead of returning the error.
func TestFacadeDefaultLoggerSafety(t *testing.T) {
	t.Run("A cycle through the default logger returns the error instead of panicking", func(t *testing.T) {
		n := normalize.New()
		a := &selfRef{}
		a.Next = a

		require.NotPanics(t, func() {
			_, err := n.Normalize(context.Background(), a)
			require.Error(t, err)
			var nerr *nerrors.Error
			require.ErrorAs(t, err, &nerr)
			require.Equal(t, nerrors.CodeCircularReference, nerr.Code)
		})
	})
}

func TestRegisterKeyTransformer(t *testing.T) {
	t.Run("Should reject a free key transformer with more than one parameter", func(t *testing.T) {
		n := normalize.New()
		err := n.RegisterKeyTransformer(func(a, b string) string { return a + b })
		require.Error(t, err)
		var nerr *nerrors.Error
		require.ErrorAs(t, err, &nerr)
		require.Equal(t, nerrors.CodeKeyTransformerTooManyParameters, nerr.Code)
	})

	t.Run("Should reject a free key transformer whose parameter is neither string nor integer", func(t *testing.T) {
		n := normalize.New()
		err := n.RegisterKeyTransformer(func(a float64) string { return "x" })
		require.Error(t, err)
		var nerr *nerrors.Error
		require.ErrorAs(t, err, &nerr)
		require.Equal(t, nerrors.CodeKeyTransformerParamWrongType, nerr.Code)
	})

	t.Run("A valid free key transformer rewrites a field's emitted key", func(t *testing.T) {
		n := normalize.New()
		require.NoError(t, n.RegisterKeyTransformer(func(key string) string { return "x_" + key }))

		tree, err := n.Normalize(context.Background(), taggedRecord{FirstName: "Ada", LastName: "Lovelace"})
		require.NoError(t, err)
		plain := tree.ToPlain()
		m, ok := plain.(*orderedmap.OrderedMap[any, any])
		require.True(t, ok)
		first, present := m.Get("x_first_name")
		require.True(t, present)
		require.Equal(t, "Ada", first)
	})
}
