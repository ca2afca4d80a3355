package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Supraja1508/Backend/internal/schema"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// unreachableStore points at a port nothing listens on, so every server
// round trip fails fast.
func unreachableStore(t *testing.T) *MongoStore {
	t.Helper()
	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100 * time.Millisecond).
		SetConnectTimeout(100 * time.Millisecond)
	client, err := mongo.Connect(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return NewMongoStore(client.Database("ddmp_test"))
}

func TestMongoStoreDeclareToleratesIndexFailure(t *testing.T) {
	s := unreachableStore(t)
	c := schema.Compile(schema.Declaration{{Name: "name", Tag: schema.TagString}})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	a, err := s.Declare(ctx, "people", c.Descriptor)
	require.NoError(t, err)
	require.NotNil(t, a)
	require.Equal(t, "people", a.Name())

	// declared once: the second call neither rebuilds nor replaces it
	b, err := s.Declare(ctx, "people", schema.Compile(schema.Declaration{{Name: "x", Tag: schema.TagDate}}).Descriptor)
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Same(t, c.Descriptor, b.Descriptor())
}

func TestMongoStoreRegisterKeepsFirst(t *testing.T) {
	s := unreachableStore(t)
	first := &MongoAccessor{}
	second := &MongoAccessor{}
	require.Same(t, first, s.register("people", first))
	require.Same(t, first, s.register("people", second))
	require.Same(t, second, s.register("other", second))
}

func TestStoredPrecisionTruncatesDates(t *testing.T) {
	born := time.Date(1990, 5, 17, 8, 30, 0, 123456789, time.UTC)
	in := map[string]any{
		"born":  born,
		"name":  "Ada",
		"age":   float64(36),
		"dates": []any{born, "x"},
		"meta":  map[string]any{"at": born},
	}
	out := storedPrecision(in)

	want := time.Date(1990, 5, 17, 8, 30, 0, 123000000, time.UTC)
	require.Equal(t, want, out["born"])
	require.Equal(t, "Ada", out["name"])
	require.Equal(t, float64(36), out["age"])
	require.Equal(t, []any{want, "x"}, out["dates"])
	require.Equal(t, map[string]any{"at": want}, out["meta"])
	// input is left alone
	require.Equal(t, born, in["born"])
}
