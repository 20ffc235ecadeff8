package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bucket maps keys to bodies on GET and records content types on PUT.
type bucket struct {
	mu      sync.Mutex
	objects map[string]string
}

func (b *bucket) get(key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.objects[key]
	return v, ok
}

func (b *bucket) put(key, v string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = v
}

// fakeBucket answers path-style requests for a single bucket named "guide".
func fakeBucket(t *testing.T, objects *bucket) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := strings.CutPrefix(r.URL.Path, "/guide/")
		if !ok {
			http.Error(w, "unknown bucket", http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodPut:
			_, _ = io.Copy(io.Discard, r.Body)
			objects.put(key, r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			body, found := objects.get(key)
			if !found {
				w.Header().Set("Content-Type", "application/xml")
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
					`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
				return
			}
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, body)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestS3(t *testing.T, endpoint string) *S3 {
	t.Helper()
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	s, err := NewS3(context.Background(), S3Config{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		Bucket:          "guide",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	require.NoError(t, err)
	return s
}

func TestS3_Open(t *testing.T) {
	srv := fakeBucket(t, &bucket{objects: map[string]string{"notes.txt": "hello"}})
	s := newTestS3(t, srv.URL)

	f, err := s.Open(context.Background(), "notes.txt")
	require.NoError(t, err)
	defer f.Body.Close()

	body, err := io.ReadAll(f.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "text/plain", f.ContentType)
}

func TestS3_OpenMissing(t *testing.T) {
	srv := fakeBucket(t, &bucket{objects: map[string]string{}})
	s := newTestS3(t, srv.URL)

	_, err := s.Open(context.Background(), "nope.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestS3_Save(t *testing.T) {
	objects := &bucket{objects: map[string]string{}}
	srv := fakeBucket(t, objects)
	s := newTestS3(t, srv.URL)

	err := s.Save(context.Background(), "a.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	ct, ok := objects.get("a.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", ct)
}
