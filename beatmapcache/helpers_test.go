package beatmapcache

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// validBody is comfortably above the minimum size.
var validBody = []byte("osu file format v14\n\n[General]\nAudioFilename: audio.mp3\n")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// upstreamServer serves beatmap files from handler and counts requests.
type upstreamServer struct {
	*httptest.Server
	requests atomic.Int64
}

func newUpstreamServer(t *testing.T, handler func(w http.ResponseWriter, id string, n int64)) *upstreamServer {
	t.Helper()
	s := &upstreamServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := s.requests.Add(1)
		handler(w, strings.TrimPrefix(r.URL.Path, "/osu/"), n)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *upstreamServer) config(dir string) Config {
	return Config{
		Dir:        dir,
		BaseURL:    s.URL + "/osu/",
		RetryDelay: time.Millisecond,
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
