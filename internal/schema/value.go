package schema

import (
	"time"
)

// Value is a document field value after it has been cast to its storage kind.
// Exactly one of the payload fields is meaningful, selected by kind.
type Value struct {
	kind    Kind
	null    bool
	str     string
	num     float64
	boolean bool
	date    time.Time
	strs    []string
	mixed   any
}

func Null(k Kind) Value { return Value{kind: k, null: true} }
func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }
func BooleanValue(b bool) Value { return Value{kind: KindBoolean, boolean: b} }
func DateValue(t time.Time) Value { return Value{kind: KindDate, date: t.UTC()} }
func StringArrayValue(s []string) Value { return Value{kind: KindStringArray, strs: s} }
func MixedValue(v any) Value { return Value{kind: KindMixed, mixed: v, null: v == nil} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.null }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString && !v.null }
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber && !v.null }
func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == KindBoolean && !v.null }
func (v Value) AsDate() (time.Time, bool) { return v.date, v.kind == KindDate && !v.null }
func (v Value) AsStrings() ([]string, bool) { return v.strs, v.kind == KindStringArray && !v.null }

// Native returns the plain Go value handed to the database driver and the
// JSON encoder.
func (v Value) Native() any {
	if v.null {
		return nil
	}
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.boolean
	case KindDate:
		return v.date
	case KindStringArray:
		out := make([]any, len(v.strs))
		for i, s := range v.strs {
			out[i] = s
		}
		return out
	default:
		return v.mixed
	}
}
