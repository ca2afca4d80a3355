package repository

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/Supraja1508/Backend/internal/document"
)

// matches applies equality filters the way the database does: a missing
// field only matches a null filter and an array field matches when any of
// its elements equals the filter value.
func matches(d *document.Document, filters map[string]any) bool {
	for k, want := range filters {
		got, ok := d.Get(k)
		if !ok || got == nil {
			if want != nil {
				return false
			}
			continue
		}
		if !equalValue(got, want) {
			return false
		}
	}
	return true
}

func equalValue(got, want any) bool {
	if arr, ok := got.([]any); ok {
		if _, wantArr := want.([]any); !wantArr {
			for _, el := range arr {
				if equalValue(el, want) {
					return true
				}
			}
			return false
		}
	}
	if gt, ok := got.(time.Time); ok {
		wt, ok := want.(time.Time)
		return ok && gt.Equal(wt)
	}
	if gf, ok := number(got); ok {
		wf, ok := number(want)
		return ok && gf == wf
	}
	return reflect.DeepEqual(got, want)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// rank orders values of different types, following the database's
// cross-type comparison order.
func rank(v any) int {
	switch v.(type) {
	case nil:
		return 1
	case float64, float32, int, int32, int64:
		return 2
	case string:
		return 3
	case map[string]any:
		return 4
	case []any:
		return 5
	case bool:
		return 8
	case time.Time:
		return 9
	}
	return 10
}

func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case time.Time:
		return x.Compare(b.(time.Time))
	}
	if xf, ok := number(a); ok {
		yf, _ := number(b)
		switch {
		case xf < yf:
			return -1
		case xf > yf:
			return 1
		}
	}
	return 0
}

func sortDocuments(docs []*document.Document, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := docs[i].Get(field)
		b, _ := docs[j].Get(field)
		c := compareValues(a, b)
		if c == 0 {
			return docs[i].ID < docs[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}
