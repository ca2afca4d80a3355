package schema

import (
	"fmt"
)

// FieldDescriptor is the storage declaration of one field.
type FieldDescriptor struct {
	Name string
	Kind Kind
}

// Descriptor is the storage-side schema of a collection. A store casts every
// written document through it.
type Descriptor struct {
	fields []FieldDescriptor
	index  map[string]Kind
}

func newDescriptor(fields []FieldDescriptor) *Descriptor {
	idx := make(map[string]Kind, len(fields))
	for _, f := range fields {
		idx[f.Name] = f.Kind
	}
	return &Descriptor{fields: fields, index: idx}
}

// Fields returns the declared fields in declaration order.
func (d *Descriptor) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(d.fields))
	copy(out, d.fields)
	return out
}

// KindOf returns the kind a field is declared with.
func (d *Descriptor) KindOf(name string) (Kind, bool) {
	k, ok := d.index[name]
	return k, ok
}

// CastDocument casts every declared field present in doc. Undeclared fields
// are dropped, the way a strict document model ignores unknown paths.
func (d *Descriptor) CastDocument(doc map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(doc))
	for name, raw := range doc {
		k, ok := d.index[name]
		if !ok {
			continue
		}
		v, err := Cast(k, raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = v.Native()
	}
	return out, nil
}

// CastFilter casts equality filter values on declared fields. Values that do
// not cast, and filters on undeclared fields, are passed through untouched.
func (d *Descriptor) CastFilter(filters map[string]any) map[string]any {
	out := make(map[string]any, len(filters))
	for name, raw := range filters {
		out[name] = raw
		k, ok := d.index[name]
		if !ok || k == KindStringArray {
			continue
		}
		if v, err := Cast(k, raw); err == nil {
			out[name] = v.Native()
		}
	}
	return out
}

// FieldError names the first field that failed validation.
type FieldError struct {
	Field    string
	Expected Tag
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid type for field %q, expected %s", e.Field, e.Expected)
}

// Validator checks documents against a declaration.
type Validator struct {
	decl Declaration
}

// Validate checks, in declaration order, every declared field that is present
// in doc. Absent fields are not checked, so partial documents pass.
func (v *Validator) Validate(doc map[string]any) error {
	for _, f := range v.decl {
		val, ok := doc[f.Name]
		if !ok {
			continue
		}
		if !Validate(f.Tag, val) {
			return &FieldError{Field: f.Name, Expected: f.Tag}
		}
	}
	return nil
}

// Compiled is the output of Compile.
type Compiled struct {
	Descriptor *Descriptor
	Validator  *Validator
}

// Compile derives the storage descriptor and the validator from a
// declaration. It never fails: unknown tags are widened to KindMixed in the
// descriptor and rejected by the validator.
func Compile(decl Declaration) *Compiled {
	fields := make([]FieldDescriptor, 0, len(decl))
	own := make(Declaration, len(decl))
	copy(own, decl)
	for _, f := range own {
		fields = append(fields, FieldDescriptor{Name: f.Name, Kind: StorageType(f.Tag)})
	}
	return &Compiled{
		Descriptor: newDescriptor(fields),
		Validator:  &Validator{decl: own},
	}
}
