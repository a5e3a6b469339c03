// Package cache stores rendered HTML in a bbolt database keyed by a hash of
// the source, so unchanged documents are not rendered twice.
package cache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

// formatVersion is mixed into every key. Bump it when rendering changes so
// stale entries stop matching.
const formatVersion = "snoomark-render-1"

const bucketRenders = "renders"

// openTimeout bounds the wait for the file lock held by another process.
const openTimeout = time.Second

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache is closed")

// Key identifies one rendering of src. variant distinguishes renderings
// of the same source with different output options.
type Key [sha256.Size]byte

// NewKey hashes the format version, variant and source.
func NewKey(variant string, src []byte) Key {
	h := sha256.New()
	h.Write([]byte(formatVersion))
	h.Write([]byte{0})
	h.Write([]byte(variant))
	h.Write([]byte{0})
	h.Write(src)

	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Stats counts lookups since the cache was opened.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// Cache is a render cache. It is safe for concurrent use.
type Cache struct {
	db     *bolt.DB
	path   string
	hits   atomic.Int64
	misses atomic.Int64
}

// DefaultPath returns the cache file under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(dir, "snoomark", "render.db"), nil
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRenders))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache %s: %w", path, err)
	}

	return &Cache{db: db, path: path}, nil
}

// Path returns the database file path.
func (c *Cache) Path() string { return c.path }

// Get returns the HTML stored under k.
func (c *Cache) Get(k Key) ([]byte, bool, error) {
	var out []byte
	err := c.view(func(b *bolt.Bucket) error {
		if v := b.Get(k[:]); v != nil {
			// v is only valid inside the transaction.
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if out == nil {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return out, true, nil
}

// Put stores html under k.
func (c *Cache) Put(k Key, html []byte) error {
	if c.db == nil {
		return ErrClosed
	}
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketRenders)).Put(k[:], html)
	})
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Stats reports the number of entries and the lookup counters.
func (c *Cache) Stats() (Stats, error) {
	st := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	err := c.view(func(b *bolt.Bucket) error {
		st.Entries = b.Stats().KeyN
		return nil
	})
	return st, err
}

// Close releases the database file lock.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	return nil
}

func (c *Cache) view(fn func(b *bolt.Bucket) error) error {
	if c.db == nil {
		return ErrClosed
	}
	err := c.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket([]byte(bucketRenders)))
	})
	if err != nil {
		return fmt.Errorf("cache read: %w", err)
	}
	return nil
}
