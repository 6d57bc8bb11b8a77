package reflectx_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/normalize/internal/reflectx"
)

type withUnexported struct {
	Public  string
	private int
}

func TestFieldsIncludesUnexported(t *testing.T) {
	t.Run("Should list both exported and unexported fields, in declaration order", func(t *testing.T) {
		fields := reflectx.Fields(reflect.TypeOf(withUnexported{}))
		require.Len(t, fields, 2)
		require.Equal(t, "Public", fields[0].Name)
		require.True(t, fields[0].Exported)
		require.Equal(t, "private", fields[1].Name)
		require.False(t, fields[1].Exported)
	})
}

func TestReadUnexportedField(t *testing.T) {
	t.Run("Should read an unexported field's value through the unsafe round-trip", func(t *testing.T) {
		v := withUnexported{Public: "visible", private: 42}
		addr := reflectx.Addressable(reflect.ValueOf(v))
		fields := reflectx.Fields(reflect.TypeOf(v))

		var privateField reflectx.FieldInfo
		for _, fi := range fields {
			if fi.Name == "private" {
				privateField = fi
			}
		}
		require.False(t, privateField.Exported)

		got := reflectx.Read(addr, privateField)
		require.Equal(t, 42, got.Interface())
	})
}
