package schema

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		tag  Tag
		val  any
		want bool
	}{
		{TagString, "x", true},
		{TagString, 1.0, false},
		{TagString, nil, false},
		{TagNumber, 42.0, true},
		{TagNumber, json.Number("42"), true},
		{TagNumber, 7, true},
		{TagNumber, "abc", false},
		{TagNumber, "42", false},
		{TagNumber, math.NaN(), false},
		{TagNumber, math.Inf(1), false},
		{TagBoolean, true, true},
		{TagBoolean, "true", false},
		{TagDate, "2024-05-01", true},
		{TagDate, "2024-05-01T10:00:00Z", true},
		{TagDate, time.Now(), true},
		{TagDate, "yesterday", false},
		{TagDate, 12.0, false},
		{TagArray, []any{"a", 1.0}, true},
		{TagArray, "a", false},
		{TagArray, nil, false},
		{TagJSON, map[string]any{"a": 1.0}, true},
		{TagMixed, []any{}, true},
		{TagMixed, nil, true},
		{TagMixed, "plain", false},
		{Tag("Decimal"), "1.5", false},
		{Tag("string"), "x", false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Validate(c.tag, c.val), "Validate(%s, %#v)", c.tag, c.val)
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	vals := []any{"x", 3.5, true, "2020-01-01", []any{1.0}, map[string]any{}, nil}
	tags := []Tag{TagString, TagNumber, TagBoolean, TagDate, TagArray, TagJSON, TagMixed, Tag("Nope")}
	for _, tag := range tags {
		for _, v := range vals {
			first := Validate(tag, v)
			for i := 0; i < 3; i++ {
				require.Equal(t, first, Validate(tag, v))
			}
		}
	}
}

func TestStorageTypeWidensUnknownTags(t *testing.T) {
	require.Equal(t, KindString, StorageType(TagString))
	require.Equal(t, KindNumber, StorageType(TagNumber))
	require.Equal(t, KindBoolean, StorageType(TagBoolean))
	require.Equal(t, KindDate, StorageType(TagDate))
	require.Equal(t, KindStringArray, StorageType(TagArray))
	require.Equal(t, KindMixed, StorageType(TagJSON))
	require.Equal(t, KindMixed, StorageType(TagMixed))
	require.Equal(t, KindMixed, StorageType(Tag("Decimal")))

	// declared permissively, validated strictly
	require.False(t, Tag("Decimal").Known())
	require.False(t, Validate(Tag("Decimal"), map[string]any{}))
}

func TestCast(t *testing.T) {
	v, err := Cast(KindNumber, "30")
	require.NoError(t, err)
	n, ok := v.AsNumber()
	require.True(t, ok)
	require.Equal(t, 30.0, n)

	_, err = Cast(KindNumber, "abc")
	require.ErrorIs(t, err, ErrCast)

	v, err = Cast(KindDate, "2024-05-01")
	require.NoError(t, err)
	d, ok := v.AsDate()
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), d)

	v, err = Cast(KindStringArray, "solo")
	require.NoError(t, err)
	require.Equal(t, []any{"solo"}, v.Native())

	v, err = Cast(KindStringArray, []any{"a", 2.0, true})
	require.NoError(t, err)
	require.Equal(t, []any{"a", "2", "true"}, v.Native())

	v, err = Cast(KindBoolean, "yes")
	require.NoError(t, err)
	require.Equal(t, true, v.Native())

	v, err = Cast(KindString, nil)
	require.NoError(t, err)
	require.True(t, v.IsNull())
	require.Nil(t, v.Native())

	v, err = Cast(KindMixed, map[string]any{"n": json.Number("3"), "f": json.Number("1.5")})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"n": int64(3), "f": 1.5}, v.Native())
}
