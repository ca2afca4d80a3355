package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Supraja1508/Backend/internal/document"
	"github.com/Supraja1508/Backend/internal/schema"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store used when no database is configured
// and in unit tests.
type MemoryStore struct {
	mu        sync.Mutex
	accessors map[string]*memoryAccessor
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accessors: make(map[string]*memoryAccessor), now: time.Now}
}

func (m *MemoryStore) Declare(_ context.Context, name string, desc *schema.Descriptor) (Accessor, error) {
	if name == "" || desc == nil {
		return nil, fmt.Errorf("declare: name and descriptor required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accessors[name]; ok {
		return a, nil
	}
	a := &memoryAccessor{name: name, desc: desc, docs: make(map[string]*document.Document), now: m.now}
	m.accessors[name] = a
	return a, nil
}

type memoryAccessor struct {
	name string
	desc *schema.Descriptor
	now  func() time.Time

	mu   sync.RWMutex
	docs map[string]*document.Document
}

func (a *memoryAccessor) Name() string                  { return a.name }
func (a *memoryAccessor) Descriptor() *schema.Descriptor { return a.desc }

func (a *memoryAccessor) Insert(_ context.Context, fields map[string]any) (*document.Document, error) {
	cast, err := a.desc.CastDocument(fields)
	if err != nil {
		return nil, err
	}
	now := a.now().UTC()
	d := &document.Document{ID: primitive.NewObjectID().Hex(), Fields: cast, CreatedAt: now, UpdatedAt: now}
	a.mu.Lock()
	a.docs[d.ID] = d
	a.mu.Unlock()
	return d.Clone(), nil
}

func (a *memoryAccessor) FindByID(_ context.Context, id string) (*document.Document, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	d, ok := a.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

func (a *memoryAccessor) Find(_ context.Context, q Query) ([]*document.Document, error) {
	filters := a.desc.CastFilter(q.Filters)
	a.mu.RLock()
	out := make([]*document.Document, 0, len(a.docs))
	for _, d := range a.docs {
		if matches(d, filters) {
			out = append(out, d.Clone())
		}
	}
	a.mu.RUnlock()

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = document.KeyID
	}
	sortDocuments(out, sortBy, q.Desc)

	if q.Skip > 0 {
		if q.Skip >= int64(len(out)) {
			return []*document.Document{}, nil
		}
		out = out[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < int64(len(out)) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (a *memoryAccessor) UpdateByID(_ context.Context, id string, partial map[string]any) (*document.Document, error) {
	cast, err := a.desc.CastDocument(partial)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range cast {
		d.Fields[k] = v
	}
	d.UpdatedAt = a.now().UTC()
	return d.Clone(), nil
}

func (a *memoryAccessor) DeleteByID(_ context.Context, id string) (*document.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(a.docs, id)
	return d, nil
}
