// Package jsonval wraps gjson results in a small tagged value with
// optional accessors, so callers can match on response shapes they do not
// control.
package jsonval

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind tags the JSON type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON document of unknown shape. Object members keep
// their document order.
type Value struct {
	r gjson.Result
}

// Null is the JSON null value. It is also the zero Value.
var Null = Value{}

// intBound is the magnitude past which a number no longer fits an int.
var intBound = math.Ldexp(1, strconv.IntSize-1)

// Decode parses a JSON document into a Value.
func Decode(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Null, errors.New("decoding json: invalid document")
	}
	return Value{r: gjson.ParseBytes(data)}, nil
}

// Kind reports the JSON type of v.
func (v Value) Kind() Kind {
	switch v.r.Type {
	case gjson.True, gjson.False:
		return KindBool
	case gjson.Number:
		return KindNumber
	case gjson.String:
		return KindString
	case gjson.JSON:
		if v.r.IsArray() {
			return KindArray
		}
		return KindObject
	default:
		return KindNull
	}
}

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.Kind() == KindNull }

// Array returns the elements of v if it is an array.
func (v Value) Array() ([]Value, bool) {
	if !v.r.IsArray() {
		return nil, false
	}
	raw := v.r.Array()
	items := make([]Value, len(raw))
	for i, r := range raw {
		items[i] = Value{r: r}
	}
	return items, true
}

// Members returns the members of v in document order if it is an object.
func (v Value) Members() ([]Member, bool) {
	if !v.r.IsObject() {
		return nil, false
	}
	members := []Member{}
	v.r.ForEach(func(k, val gjson.Result) bool {
		members = append(members, Member{Key: k.String(), Value: Value{r: val}})
		return true
	})
	return members, true
}

// Field looks up key on an object. Keys match literally, and duplicates
// resolve to the last occurrence.
func (v Value) Field(key string) (Value, bool) {
	if !v.r.IsObject() {
		return Null, false
	}
	var (
		found gjson.Result
		ok    bool
	)
	v.r.ForEach(func(k, val gjson.Result) bool {
		if k.String() == key {
			found, ok = val, true
		}
		return true
	})
	return Value{r: found}, ok
}

// ArrayField returns the elements of v[key] when that field is an array.
func (v Value) ArrayField(key string) ([]Value, bool) {
	f, ok := v.Field(key)
	if !ok {
		return nil, false
	}
	return f.Array()
}

// Text returns the string held by v.
func (v Value) Text() (string, bool) {
	if v.r.Type != gjson.String {
		return "", false
	}
	return v.r.Str, true
}

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.r.Bool(), true
}

// Int returns v as an integer. Fractional numbers are truncated toward
// zero; numbers outside the int range are rejected.
func (v Value) Int() (int, bool) {
	if v.r.Type != gjson.Number {
		return 0, false
	}
	f := v.r.Num
	if math.IsNaN(f) || f >= intBound || f < -intBound {
		return 0, false
	}
	return int(v.r.Int()), true
}

// MarshalJSON returns the document text of v, so member order is kept.
func (v Value) MarshalJSON() ([]byte, error) {
	raw := strings.TrimSpace(v.r.Raw)
	if raw == "" {
		return []byte("null"), nil
	}
	return []byte(raw), nil
}

// UnmarshalJSON decodes data into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
