package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Supraja1508/Backend/internal/document"
	"github.com/Supraja1508/Backend/internal/schema"
	"github.com/Supraja1508/Backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore declares one MongoDB collection per user-defined collection.
type MongoStore struct {
	db  *mongo.Database
	now func() time.Time

	mu        sync.Mutex
	accessors map[string]*MongoAccessor
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, now: time.Now, accessors: make(map[string]*MongoAccessor)}
}

func (m *MongoStore) Declare(ctx context.Context, name string, desc *schema.Descriptor) (Accessor, error) {
	if name == "" || desc == nil {
		return nil, fmt.Errorf("declare: name and descriptor required")
	}
	m.mu.Lock()
	a, ok := m.accessors[name]
	m.mu.Unlock()
	if ok {
		return a, nil
	}
	col := m.db.Collection(name)
	// list queries sort by createdAt far more often than by any user field.
	// The index only speeds reads, so a failed build leaves the collection usable.
	idx := mongo.IndexModel{Keys: bson.D{{Key: document.KeyCreatedAt, Value: 1}}}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		logger.Warnf("declare %s: createdAt index not built: %v", name, err)
	}
	return m.register(name, &MongoAccessor{col: col, desc: desc, now: m.now}), nil
}

// register stores a under name unless a concurrent Declare got there first,
// in which case the stored accessor wins.
func (m *MongoStore) register(name string, a *MongoAccessor) *MongoAccessor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.accessors[name]; ok {
		return prev
	}
	m.accessors[name] = a
	return a
}

// MongoAccessor implements Accessor on a single *mongo.Collection.
type MongoAccessor struct {
	col  *mongo.Collection
	desc *schema.Descriptor
	now  func() time.Time
}

func (a *MongoAccessor) Name() string                  { return a.col.Name() }
func (a *MongoAccessor) Descriptor() *schema.Descriptor { return a.desc }

func (a *MongoAccessor) Insert(ctx context.Context, fields map[string]any) (*document.Document, error) {
	cast, err := a.desc.CastDocument(fields)
	if err != nil {
		return nil, err
	}
	now := a.now().UTC().Truncate(time.Millisecond)
	oid := primitive.NewObjectID()
	doc := bson.M{document.KeyID: oid, document.KeyCreatedAt: now, document.KeyUpdatedAt: now}
	for k, v := range cast {
		doc[k] = v
	}
	if _, err := a.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &document.Document{ID: oid.Hex(), Fields: storedPrecision(cast), CreatedAt: now, UpdatedAt: now}, nil
}

func (a *MongoAccessor) FindByID(ctx context.Context, id string) (*document.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var raw bson.M
	if err := a.col.FindOne(ctx, bson.M{document.KeyID: oid}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromBSON(raw), nil
}

func (a *MongoAccessor) Find(ctx context.Context, q Query) ([]*document.Document, error) {
	filter := bson.M{}
	for k, v := range a.desc.CastFilter(q.Filters) {
		if k == document.KeyID {
			if s, ok := v.(string); ok {
				if oid, err := primitive.ObjectIDFromHex(s); err == nil {
					v = oid
				}
			}
		}
		filter[k] = v
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = document.KeyID
	}
	dir := 1
	if q.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: dir}})
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cur, err := a.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, fromBSON(raw))
	}
	return out, cur.Err()
}

func (a *MongoAccessor) UpdateByID(ctx context.Context, id string, partial map[string]any) (*document.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	cast, err := a.desc.CastDocument(partial)
	if err != nil {
		return nil, err
	}
	set := bson.M{document.KeyUpdatedAt: a.now().UTC().Truncate(time.Millisecond)}
	for k, v := range cast {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var raw bson.M
	err = a.col.FindOneAndUpdate(ctx, bson.M{document.KeyID: oid}, bson.M{"$set": set}, opts).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromBSON(raw), nil
}

func (a *MongoAccessor) DeleteByID(ctx context.Context, id string) (*document.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var raw bson.M
	if err := a.col.FindOneAndDelete(ctx, bson.M{document.KeyID: oid}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromBSON(raw), nil
}

// storedPrecision returns fields as MongoDB will read them back: BSON dates
// keep milliseconds only.
func storedPrecision(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = truncateDates(v)
	}
	return out
}

func truncateDates(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Truncate(time.Millisecond)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = truncateDates(e)
		}
		return out
	case map[string]any:
		return storedPrecision(t)
	}
	return v
}

// fromBSON lifts a decoded record into a Document, converting driver types
// to the plain values the rest of the service works with.
func fromBSON(raw bson.M) *document.Document {
	d := &document.Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case document.KeyID:
			if oid, ok := v.(primitive.ObjectID); ok {
				d.ID = oid.Hex()
			} else {
				d.ID = fmt.Sprint(v)
			}
		case document.KeyCreatedAt:
			d.CreatedAt, _ = plain(v).(time.Time)
		case document.KeyUpdatedAt:
			d.UpdatedAt, _ = plain(v).(time.Time)
		case "__v":
		default:
			d.Fields[k] = plain(v)
		}
	}
	return d
}

func plain(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case int32:
		return int64(t)
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	}
	return v
}
