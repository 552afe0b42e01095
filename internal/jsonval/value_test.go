package jsonval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesMemberOrder(t *testing.T) {
	v, err := Decode([]byte(`{"z": 1, "a": [true, null], "m": "x"}`))
	require.NoError(t, err)

	members, ok := v.Members()
	require.True(t, ok)
	require.Len(t, members, 3)
	assert.Equal(t, "z", members[0].Key)
	assert.Equal(t, "a", members[1].Key)
	assert.Equal(t, "m", members[2].Key)

	items, ok := v.ArrayField("a")
	require.True(t, ok)
	require.Len(t, items, 2)
	b, ok := items[0].Bool()
	assert.True(t, ok)
	assert.True(t, b)
	assert.True(t, items[1].IsNull())
}

func TestDecode_RejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "{", `{"a":1} extra`, "[1,]"} {
		_, err := Decode([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestValue_Int(t *testing.T) {
	v, err := Decode([]byte(`{"a": 5, "b": 7.9, "c": "5"}`))
	require.NoError(t, err)

	a, _ := v.Field("a")
	n, ok := a.Int()
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	b, _ := v.Field("b")
	n, ok = b.Int()
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	c, _ := v.Field("c")
	_, ok = c.Int()
	assert.False(t, ok)
}

func TestValue_FieldLastDuplicateWins(t *testing.T) {
	v, err := Decode([]byte(`{"k": "first", "k": "second"}`))
	require.NoError(t, err)

	f, ok := v.Field("k")
	require.True(t, ok)
	s, _ := f.Text()
	assert.Equal(t, "second", s)
}

func TestValue_MarshalJSONKeepsOrder(t *testing.T) {
	in := `{"b":1,"a":{"y":[1,"two",false],"x":null}}`
	v, err := Decode([]byte(in))
	require.NoError(t, err)

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestValue_IntRejectsOutOfRange(t *testing.T) {
	v, err := Decode([]byte(`{"big": 1e20, "small": -1e20, "ok": -42}`))
	require.NoError(t, err)

	for _, k := range []string{"big", "small"} {
		f, _ := v.Field(k)
		_, ok := f.Int()
		assert.False(t, ok, k)
	}

	f, _ := v.Field("ok")
	n, ok := f.Int()
	assert.True(t, ok)
	assert.Equal(t, -42, n)
}

func TestValue_FieldMatchesKeysLiterally(t *testing.T) {
	v, err := Decode([]byte(`{"a.b": 1, "a": {"b": 2}}`))
	require.NoError(t, err)

	f, ok := v.Field("a.b")
	require.True(t, ok)
	n, _ := f.Int()
	assert.Equal(t, 1, n)
}

func TestValue_EmptyArray(t *testing.T) {
	v, err := Decode([]byte(`{"data": []}`))
	require.NoError(t, err)

	items, ok := v.ArrayField("data")
	assert.True(t, ok)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestValue_ZeroIsNull(t *testing.T) {
	assert.True(t, Null.IsNull())
	out, err := Null.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestValue_AccessorsOnWrongKind(t *testing.T) {
	v, err := Decode([]byte(`"hello"`))
	require.NoError(t, err)
	assert.Equal(t, KindString, v.Kind())

	_, ok := v.Array()
	assert.False(t, ok)
	_, ok = v.Members()
	assert.False(t, ok)
	_, ok = v.Field("x")
	assert.False(t, ok)
	_, ok = v.Bool()
	assert.False(t, ok)
}
