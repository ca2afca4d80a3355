package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var ErrCast = errors.New("cast failed")

// Cast coerces v into the storage kind k the way the document store does on
// write. It is looser than Validate: numeric strings become numbers, date
// strings become dates and a scalar becomes a one-element string array.
// nil always casts to a null value.
func Cast(k Kind, v any) (Value, error) {
	if v == nil {
		return Null(k), nil
	}
	switch k {
	case KindString:
		return castString(v)
	case KindNumber:
		return castNumber(v)
	case KindBoolean:
		return castBoolean(v)
	case KindDate:
		return castDate(v)
	case KindStringArray:
		return castStringArray(v)
	default:
		return MixedValue(normalize(v)), nil
	}
}

func castErr(k Kind, v any) error {
	return fmt.Errorf("%w: %v (%T) to %s", ErrCast, v, v, k)
}

func castString(v any) (Value, error) {
	switch s := v.(type) {
	case string:
		return StringValue(s), nil
	case bool:
		return StringValue(strconv.FormatBool(s)), nil
	case json.Number:
		return StringValue(s.String()), nil
	case time.Time:
		return StringValue(s.UTC().Format(time.RFC3339Nano)), nil
	}
	if f, ok := toFloat(v); ok {
		return StringValue(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return Value{}, castErr(KindString, v)
}

func castNumber(v any) (Value, error) {
	switch n := v.(type) {
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return Null(KindNumber), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, castErr(KindNumber, v)
		}
		return NumberValue(f), nil
	case bool:
		if n {
			return NumberValue(1), nil
		}
		return NumberValue(0), nil
	}
	if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return NumberValue(f), nil
	}
	return Value{}, castErr(KindNumber, v)
}

func castBoolean(v any) (Value, error) {
	switch b := v.(type) {
	case bool:
		return BooleanValue(b), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes":
			return BooleanValue(true), nil
		case "false", "0", "no":
			return BooleanValue(false), nil
		}
		return Value{}, castErr(KindBoolean, v)
	}
	if f, ok := toFloat(v); ok {
		switch f {
		case 1:
			return BooleanValue(true), nil
		case 0:
			return BooleanValue(false), nil
		}
	}
	return Value{}, castErr(KindBoolean, v)
}

func castDate(v any) (Value, error) {
	switch d := v.(type) {
	case time.Time:
		return DateValue(d), nil
	case string:
		if strings.TrimSpace(d) == "" {
			return Null(KindDate), nil
		}
		if t, ok := parseDate(d); ok {
			return DateValue(t), nil
		}
		return Value{}, castErr(KindDate, v)
	}
	if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return DateValue(time.UnixMilli(int64(f))), nil
	}
	return Value{}, castErr(KindDate, v)
}

func castStringArray(v any) (Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		s, err := castString(v)
		if err != nil {
			return Value{}, castErr(KindStringArray, v)
		}
		str, _ := s.AsString()
		return StringArrayValue([]string{str}), nil
	}
	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i).Interface()
		if el == nil {
			return Value{}, castErr(KindStringArray, v)
		}
		s, err := castString(el)
		if err != nil {
			return Value{}, castErr(KindStringArray, v)
		}
		str, _ := s.AsString()
		out = append(out, str)
	}
	return StringArrayValue(out), nil
}

// normalize rewrites json.Number leaves so mixed values can be handed to any
// encoder.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}
