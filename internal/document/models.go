package document

import (
	"time"

	json "github.com/goccy/go-json"
)

// Reserved keys every stored document carries next to its user fields.
const (
	KeyID        = "_id"
	KeyCreatedAt = "createdAt"
	KeyUpdatedAt = "updatedAt"
)

// IsReserved reports whether name collides with a system-managed key.
func IsReserved(name string) bool {
	return name == KeyID || name == KeyCreatedAt || name == KeyUpdatedAt
}

// Document is one record of a user-defined collection. Fields holds the
// values of the declared schema fields that are set.
type Document struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Get returns the value stored under key, including the reserved keys.
func (d *Document) Get(key string) (any, bool) {
	switch key {
	case KeyID:
		return d.ID, true
	case KeyCreatedAt:
		return d.CreatedAt, true
	case KeyUpdatedAt:
		return d.UpdatedAt, true
	}
	v, ok := d.Fields[key]
	return v, ok
}

// Clone returns a copy whose field map can be mutated independently.
func (d *Document) Clone() *Document {
	cp := *d
	cp.Fields = make(map[string]any, len(d.Fields))
	for k, v := range d.Fields {
		cp.Fields[k] = v
	}
	return &cp
}

// MarshalJSON renders the document flat: user fields next to _id and the
// timestamps.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+3)
	for k, v := range d.Fields {
		out[k] = v
	}
	out[KeyID] = d.ID
	out[KeyCreatedAt] = d.CreatedAt
	out[KeyUpdatedAt] = d.UpdatedAt
	return json.Marshal(out)
}
