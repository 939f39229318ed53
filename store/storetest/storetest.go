// Package storetest provides an in-memory Store for exercising record
// generation and collection round-trips without touching a filesystem —
// the equivalent role the teacher's store/testutil/testutil.go plays for
// its on-disk index/primary pair.
package storetest

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/hash"
)

var _ hashio.Store = (*Store)(nil)

// Store is a map-backed hashio.Store. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	blobs map[hash.Hash32][]byte

	// Writes counts every successful Create+Commit, letting tests assert
	// dedup behavior (a second Put of an already-present value performs
	// zero additional writes).
	Writes int
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{blobs: make(map[hash.Hash32][]byte)}
}

func (s *Store) Open(h hash.Hash32) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[h]
	if !ok {
		return nil, fmt.Errorf("storetest: no blob for %s", h.Hex())
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *Store) Exists(h hash.Hash32) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[h]
	return ok, nil
}

func (s *Store) Create(h hash.Hash32) (hashio.BlobWriter, error) {
	return &writer{store: s, hash: h}, nil
}

type writer struct {
	store *Store
	hash  hash.Hash32
	buf   bytes.Buffer
}

func (w *writer) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *writer) Commit() error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.blobs[w.hash] = append([]byte(nil), w.buf.Bytes()...)
	w.store.Writes++
	return nil
}

func (w *writer) Abort() error { return nil }

// Len reports how many blobs are currently stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Has is a test convenience wrapping Exists without the error return.
func (s *Store) Has(h hash.Hash32) bool {
	ok, _ := s.Exists(h)
	return ok
}
