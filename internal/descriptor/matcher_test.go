package descriptor_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/normalize/internal/descriptor"
)

type ancestorBase struct {
	ID string
}

type derivedRecord struct {
	ancestorBase
	Name string
}

func TestMatch(t *testing.T) {
	t.Run("Should match Any for any value", func(t *testing.T) {
		assert.True(t, descriptor.Match(descriptor.Any(), reflect.ValueOf(42)))
		assert.True(t, descriptor.Match(descriptor.Any(), reflect.ValueOf("x")))
	})

	t.Run("Should match positive-int only for positive integers", func(t *testing.T) {
		d := descriptor.PositiveInt()
		assert.True(t, descriptor.Match(d, reflect.ValueOf(42)))
		assert.False(t, descriptor.Match(d, reflect.ValueOf(-42)))
	})

	t.Run("Should match negative-int only for negative integers", func(t *testing.T) {
		d := descriptor.NegativeInt()
		assert.False(t, descriptor.Match(d, reflect.ValueOf(42)))
		assert.True(t, descriptor.Match(d, reflect.ValueOf(-42)))
	})

	t.Run("Should match Record by exact identity", func(t *testing.T) {
		d := descriptor.Record(reflect.TypeOf(derivedRecord{}))
		require.True(t, descriptor.Match(d, reflect.ValueOf(derivedRecord{})))
	})

	t.Run("Should match Record covariantly via embedded ancestor", func(t *testing.T) {
		d := descriptor.Record(reflect.TypeOf(ancestorBase{}))
		require.True(t, descriptor.Match(d, reflect.ValueOf(derivedRecord{})))
	})

	t.Run("Should not match Record for an unrelated type", func(t *testing.T) {
		d := descriptor.Record(reflect.TypeOf(ancestorBase{}))
		assert.False(t, descriptor.Match(d, reflect.ValueOf(struct{ X int }{})))
	})

	t.Run("Should match Union iff any component matches", func(t *testing.T) {
		d := descriptor.Union(descriptor.Bool(), descriptor.String())
		assert.True(t, descriptor.Match(d, reflect.ValueOf("x")))
		assert.False(t, descriptor.Match(d, reflect.ValueOf(1.5)))
	})

	t.Run("Should match Intersection iff all components match", func(t *testing.T) {
		d := descriptor.Intersection(descriptor.Any(), descriptor.String())
		assert.True(t, descriptor.Match(d, reflect.ValueOf("x")))
		assert.False(t, descriptor.Match(d, reflect.ValueOf(1)))
	})

	t.Run("Should match Null for an invalid reflect.Value", func(t *testing.T) {
		assert.True(t, descriptor.Match(descriptor.Null(), reflect.Value{}))
	})
}
