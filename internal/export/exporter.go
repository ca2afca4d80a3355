// Package export writes collection snapshots as newline-delimited JSON to
// object storage and hands back a presigned download link.
package export

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Supraja1508/Backend/internal/document"
	"github.com/Supraja1508/Backend/internal/document/service"
)

const contentType = "application/x-ndjson"

// ObjectStore is the subset of the object storage client used by exports.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Exporter struct {
	store ObjectStore
	ttl   time.Duration
	now   func() time.Time
}

func New(store ObjectStore, ttl time.Duration) *Exporter {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Exporter{store: store, ttl: ttl, now: time.Now}
}

// Export encodes docs one per line, uploads them under
// exports/<collection>/<timestamp>-<uuid>.ndjson and presigns the object.
func (e *Exporter) Export(ctx context.Context, collection string, docs []*document.Document) (*service.ExportResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return nil, fmt.Errorf("encode document %s: %w", d.ID, err)
		}
	}
	now := e.now().UTC()
	key := fmt.Sprintf("exports/%s/%s-%s.ndjson", url.PathEscape(collection), now.Format("20060102T150405Z"), uuid.NewString())
	if err := e.store.Put(ctx, key, buf.Bytes(), contentType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	link, err := e.store.PresignGet(ctx, key, e.ttl)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	return &service.ExportResult{Key: key, URL: link, Count: len(docs), ExpiresAt: now.Add(e.ttl)}, nil
}
