package export

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/Supraja1508/Backend/internal/document"
)

type memObjects struct {
	objects     map[string][]byte
	contentType string
	uploadErr   error
}

func (m *memObjects) Put(_ context.Context, key string, data []byte, ct string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	b := append([]byte(nil), data...)
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = b
	m.contentType = ct
	return nil
}

func (m *memObjects) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://objects.local/" + key + "?ttl=" + ttl.String(), nil
}

func TestExportWritesNDJSON(t *testing.T) {
	objs := &memObjects{}
	e := New(objs, time.Minute)
	e.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	docs := []*document.Document{
		{ID: "a", Fields: map[string]any{"n": 1.0}},
		{ID: "b", Fields: map[string]any{"n": 2.0}},
	}
	res, err := e.Export(context.Background(), "my people", docs)
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	require.True(t, strings.HasPrefix(res.Key, "exports/my%20people/20240301T120000Z-"), res.Key)
	require.Contains(t, res.URL, res.Key)
	require.Equal(t, time.Date(2024, 3, 1, 12, 1, 0, 0, time.UTC), res.ExpiresAt)
	require.Equal(t, contentType, objs.contentType)

	sc := bufio.NewScanner(bytes.NewReader(objs.objects[res.Key]))
	var ids []string
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		ids = append(ids, line["_id"].(string))
	}
	require.Equal(t, []string{"a", "b"}, ids)
}

func TestExportUploadFailure(t *testing.T) {
	e := New(&memObjects{uploadErr: errors.New("denied")}, 0)
	_, err := e.Export(context.Background(), "people", nil)
	require.ErrorContains(t, err, "denied")
}
