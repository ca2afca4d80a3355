package schema

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var ErrNotFlat = errors.New("schema must be a flat mapping of field name to type")

// Field is one declared field of a collection.
type Field struct {
	Name string
	Tag  Tag
}

// Declaration is a collection schema as the user wrote it: field names mapped
// to type tags, in declaration order. Tags are stored verbatim, including
// unknown ones.
type Declaration []Field

// Lookup returns the tag declared for name.
func (d Declaration) Lookup(name string) (Tag, bool) {
	for _, f := range d {
		if f.Name == name {
			return f.Tag, true
		}
	}
	return "", false
}

// set replaces the tag of an existing field in place or appends a new one,
// so a repeated key keeps its first position and its last value.
func (d Declaration) set(name string, tag Tag) Declaration {
	for i := range d {
		if d[i].Name == name {
			d[i].Tag = tag
			return d
		}
	}
	return append(d, Field{Name: name, Tag: tag})
}

func (d Declaration) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(string(f.Tag))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts only a JSON object whose values are strings.
func (d *Declaration) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotFlat
	}
	out := Declaration{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := kt.(string)
		if !ok {
			return ErrNotFlat
		}
		vt, err := dec.Token()
		if err != nil {
			return err
		}
		tag, ok := vt.(string)
		if !ok {
			return fmt.Errorf("%w: field %q", ErrNotFlat, name)
		}
		out = out.set(name, Tag(tag))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// MarshalBSONValue stores the declaration as an embedded document in
// declaration order.
func (d Declaration) MarshalBSONValue() (bsontype.Type, []byte, error) {
	doc := make(bson.D, 0, len(d))
	for _, f := range d {
		doc = append(doc, bson.E{Key: f.Name, Value: string(f.Tag)})
	}
	return bson.MarshalValue(doc)
}

func (d *Declaration) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var doc bson.D
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&doc); err != nil {
		return err
	}
	out := make(Declaration, 0, len(doc))
	for _, e := range doc {
		tag, ok := e.Value.(string)
		if !ok {
			return fmt.Errorf("%w: field %q", ErrNotFlat, e.Key)
		}
		out = out.set(e.Key, Tag(tag))
	}
	*d = out
	return nil
}
