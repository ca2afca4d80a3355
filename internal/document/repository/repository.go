package repository

import (
	"context"
	"errors"

	"github.com/Supraja1508/Backend/internal/document"
	"github.com/Supraja1508/Backend/internal/schema"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrCast is returned when a written value does not fit its declared kind.
	ErrCast = schema.ErrCast
)

// Query selects documents for Find. A zero Limit means no limit.
type Query struct {
	Filters map[string]any
	Skip    int64
	Limit   int64
	SortBy  string
	Desc    bool
}

// Accessor reads and writes the documents of one physical collection. Every
// write is cast through the descriptor the accessor was declared with.
type Accessor interface {
	Name() string
	Descriptor() *schema.Descriptor
	Insert(ctx context.Context, fields map[string]any) (*document.Document, error)
	FindByID(ctx context.Context, id string) (*document.Document, error)
	Find(ctx context.Context, q Query) ([]*document.Document, error)
	UpdateByID(ctx context.Context, id string, partial map[string]any) (*document.Document, error)
	DeleteByID(ctx context.Context, id string) (*document.Document, error)
}

// Store hands out accessors. Declaring a name twice returns the accessor
// from the first declaration; the later descriptor is ignored.
type Store interface {
	Declare(ctx context.Context, name string, desc *schema.Descriptor) (Accessor, error)
}
