// Package fsstore implements the filesystem backend of the store: a value
// with hex hash "ab<62 hex chars>" lives at <base>/ab/<62 hex chars>, temp
// siblings carry a "_" suffix, and publication is a single atomic rename.
package fsstore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/multierr"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/hash"
	"github.com/rpcpool/hashio/store/blobcache"
)

var log = logging.Logger("hashio/fsstore")

var _ hashio.Store = (*Store)(nil)

const defaultCacheCapacity = 4096

type config struct {
	cacheCapacity int
	compression   bool
	fsync         bool
}

// Option configures Open, in the teacher's functional-option style
// (store/store.go's config+apply(options)).
type Option func(*config)

// WithReadCache sets the total number of blobs the read cache may hold
// across all shards. A non-positive value disables the cache.
func WithReadCache(n int) Option {
	return func(c *config) { c.cacheCapacity = n }
}

// WithCompression transparently zstd-compresses blob bytes on disk. The
// content hash is always computed over uncompressed canonical bytes, so
// turning this on or off does not change any address in the store.
func WithCompression(enabled bool) Option {
	return func(c *config) { c.compression = enabled }
}

// WithFsync calls fsync on the temp file before rename and on the parent
// directory after, trading put latency for durability across power loss —
// the open question spec.md §9 leaves to implementers.
func WithFsync(enabled bool) Option {
	return func(c *config) { c.fsync = enabled }
}

// Store is the filesystem-backed hashio.Store.
type Store struct {
	base        string
	cache       *blobcache.Cache
	compression bool
	fsync       bool
}

// Open prepares (creating if necessary) a filesystem store rooted at
// basePath.
func Open(basePath string, opts ...Option) (*Store, error) {
	c := config{cacheCapacity: defaultCacheCapacity}
	for _, o := range opts {
		o(&c)
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("fsstore: cannot create base path: %w", err)
	}
	return &Store{
		base:        basePath,
		cache:       blobcache.New(c.cacheCapacity),
		compression: c.compression,
		fsync:       c.fsync,
	}, nil
}

func (s *Store) pathFor(h hash.Hash32) string {
	prefix, rest := h.ShardPath()
	return filepath.Join(s.base, prefix, rest)
}

// Exists reports whether h's blob is already present, per spec.md §4.5
// step 2 (dedup check).
func (s *Store) Exists(h hash.Hash32) (bool, error) {
	if _, ok := s.cache.Get(h); ok {
		return true, nil
	}
	_, err := os.Stat(s.pathFor(h))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Open returns a reader over h's blob, positioned at offset 0. Callers
// (hashio.Get) are responsible for interpreting the envelope.
func (s *Store) Open(h hash.Hash32) (io.ReadCloser, error) {
	if b, ok := s.cache.Get(h); ok {
		return io.NopCloser(bytes.NewReader(b)), nil
	}

	p := s.pathFor(h)
	raw, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("fsstore: blob %s not found: %w", h.Hex(), err)
		}
		return nil, err
	}

	if s.compression {
		raw, err = decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("fsstore: decompressing blob %s: %w", h.Hex(), err)
		}
	}

	s.cache.Put(h, raw)
	return io.NopCloser(bytes.NewReader(raw)), nil
}

// Create begins writing a new blob at h, per spec.md §4.5 steps 4-8:
// intermediate directories are created eagerly, payload bytes land in a
// "_"-suffixed temp sibling, and Commit does the atomic rename.
func (s *Store) Create(h hash.Hash32) (hashio.BlobWriter, error) {
	p := s.pathFor(h)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	tmp := p + "_"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	bw := &blobWriter{store: s, hash: h, file: f, tmpPath: tmp, finalPath: p}
	if s.compression {
		bw.mirror = &bytes.Buffer{}
	}
	return bw, nil
}

type blobWriter struct {
	store     *Store
	hash      hash.Hash32
	file      *os.File
	mirror    *bytes.Buffer // non-nil only when compression is enabled
	tmpPath   string
	finalPath string
}

func (w *blobWriter) Write(p []byte) (int, error) {
	if w.mirror != nil {
		return w.mirror.Write(p)
	}
	return w.file.Write(p)
}

// Commit flushes, closes, and atomically renames the temp file into place,
// then seeds the read cache. A "target already exists" rename failure is
// treated as success, per spec.md §9's note that concurrent put of the
// same hash is benign.
func (w *blobWriter) Commit() error {
	var raw []byte
	if w.mirror != nil {
		raw = w.mirror.Bytes()
		compressed, err := compress(raw)
		if err != nil {
			w.file.Close()
			return err
		}
		if _, err := w.file.Write(compressed); err != nil {
			w.file.Close()
			return err
		}
	}

	if w.store.fsync {
		if err := w.file.Sync(); err != nil {
			w.file.Close()
			return err
		}
	}
	if err := w.file.Close(); err != nil {
		return err
	}

	if err := os.Rename(w.tmpPath, w.finalPath); err != nil {
		if _, statErr := os.Stat(w.finalPath); statErr != nil {
			return err
		}
		log.Debugw("rename target already existed, treating as success", "path", w.finalPath)
		_ = os.Remove(w.tmpPath)
	}

	if w.store.fsync {
		if d, derr := os.Open(filepath.Dir(w.finalPath)); derr == nil {
			_ = d.Sync()
			_ = d.Close()
		}
	}

	if raw == nil {
		if b, err := os.ReadFile(w.finalPath); err == nil {
			raw = b
		}
	}
	if raw != nil {
		w.store.cache.Put(w.hash, raw)
	}
	return nil
}

// Abort discards the temp file. Harmless if called after a crash has
// already left the temp file on disk: the next sweep removes it.
func (w *blobWriter) Abort() error {
	_ = w.file.Close()
	_ = os.Remove(w.tmpPath)
	return nil
}

// SweepTemp removes every leftover "_"-suffixed temp file under the store's
// base path. Per spec.md §4.5/§5, a temp file left behind by a crashed
// writer is not referenced by any hash, so deleting it is always safe.
// A single unremovable file does not abort the sweep: every candidate is
// attempted, and any removal failures are aggregated and returned together.
func (s *Store) SweepTemp() (int, error) {
	var removed int
	var errs error
	err := filepath.WalkDir(s.base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, "_") {
			if rmErr := os.Remove(path); rmErr != nil {
				errs = multierr.Append(errs, fmt.Errorf("sweep %s: %w", path, rmErr))
			} else {
				removed++
				log.Infow("swept orphaned temp file", "path", path)
			}
		}
		return nil
	})
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	return removed, errs
}

// StorageSize returns the total bytes used by committed blobs under base.
func (s *Store) StorageSize() (int64, error) {
	var total int64
	err := filepath.WalkDir(s.base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, "_") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

func compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(b); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
