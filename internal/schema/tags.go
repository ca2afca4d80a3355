// Package schema turns user-declared collection schemas into an enforceable
// contract: a storage descriptor used by the document store and a validator
// applied to documents on create.
//
// Declaration and validation are deliberately asymmetric. StorageType accepts
// any tag and widens unknown ones to KindMixed, while Validate rejects every
// value for a tag it has no predicate for.
package schema

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Tag is a type name as written by the user in a schema declaration.
type Tag string

const (
	TagString  Tag = "String"
	TagNumber  Tag = "Number"
	TagBoolean Tag = "Boolean"
	TagDate    Tag = "Date"
	TagArray   Tag = "Array"
	TagJSON    Tag = "JSON"
	TagMixed   Tag = "Mixed"
)

// Known reports whether t is one of the supported tags.
func (t Tag) Known() bool {
	_, ok := predicates[t]
	return ok
}

// Kind is the storage-level field type a tag is declared as.
type Kind int

const (
	KindMixed Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindDate
	KindStringArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindStringArray:
		return "[string]"
	default:
		return "mixed"
	}
}

// StorageType maps a tag to the kind the store declares the field as.
// Unknown tags fall back to KindMixed.
func StorageType(t Tag) Kind {
	switch t {
	case TagString:
		return KindString
	case TagNumber:
		return KindNumber
	case TagBoolean:
		return KindBoolean
	case TagDate:
		return KindDate
	case TagArray:
		return KindStringArray
	default:
		return KindMixed
	}
}

var predicates = map[Tag]func(any) bool{
	TagString:  isString,
	TagNumber:  isNumber,
	TagBoolean: isBoolean,
	TagDate:    isDate,
	TagArray:   isArray,
	TagJSON:    isStructured,
	TagMixed:   isStructured,
}

// Validate reports whether v satisfies the predicate registered for t.
// A tag without a predicate rejects every value.
func Validate(t Tag, v any) bool {
	p, ok := predicates[t]
	if !ok {
		return false
	}
	return p(v)
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isBoolean(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isNumber(v any) bool {
	f, ok := toFloat(v)
	return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isDate(v any) bool {
	switch d := v.(type) {
	case time.Time:
		return !d.IsZero()
	case string:
		_, ok := parseDate(d)
		return ok
	}
	return false
}

func isArray(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func isStructured(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// toFloat converts the numeric representations a decoded payload can carry.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	}
	return 0, false
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
