package stems

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned for references the store never issued.
var ErrNotFound = errors.New("stem not found")

// ContentTypeMP3 is the media type of encoded stems.
const ContentTypeMP3 = "audio/mpeg"

// Entry is one stored, immutable encoded stem.
type Entry struct {
	Ref         uuid.UUID
	Kind        Kind
	Title       string
	Filename    string
	ContentType string

	data []byte
}

// Size returns the encoded length in bytes.
func (e *Entry) Size() int64 {
	return int64(len(e.data))
}

// Bytes returns a copy of the encoded stream.
func (e *Entry) Bytes() []byte {
	return append([]byte(nil), e.data...)
}

// Store keeps encoded stems in memory under stable references. It is safe
// for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[uuid.UUID]*Entry)}
}

// Put stores data for kind and returns its reference. The store keeps its
// own copy so later writes to data do not leak into playback.
func (s *Store) Put(kind Kind, filename, contentType string, data []byte) *Entry {
	e := &Entry{
		Ref:         uuid.New(),
		Kind:        kind,
		Title:       kind.Title(),
		Filename:    filename,
		ContentType: contentType,
		data:        append([]byte(nil), data...),
	}

	s.mu.Lock()
	s.entries[e.Ref] = e
	s.mu.Unlock()
	return e
}

// Get looks up an entry by reference.
func (s *Store) Get(ref uuid.UUID) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[ref]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "ref %s", ref)
	}
	return e, nil
}

// Open returns a seekable reader over the stored bytes, suitable for
// http.ServeContent or an audio element.
func (s *Store) Open(ref uuid.UUID) (io.ReadSeeker, error) {
	e, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(e.data), nil
}

// Remove drops a reference. Removing an unknown reference is a no-op.
func (s *Store) Remove(ref uuid.UUID) {
	s.mu.Lock()
	delete(s.entries, ref)
	s.mu.Unlock()
}

// Entries returns every entry ordered by stem kind.
func (s *Store) Entries() []*Entry {
	s.mu.RLock()
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Filename < out[j].Filename
	})
	return out
}

// Export writes every entry into dir under its suggested filename and
// returns the written paths in entry order.
func (s *Store) Export(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}

	var paths []string
	for _, e := range s.Entries() {
		path := filepath.Join(dir, e.Filename)
		if err := os.WriteFile(path, e.data, 0o644); err != nil {
			return paths, errors.Wrapf(err, "writing %s stem", e.Kind)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
