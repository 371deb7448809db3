// Package cache memoizes import resolutions in an LRU with msgpack persistence.
//
// Resolution of a call site depends only on its directory, imported path and
// alias, so files in the same package importing the same name share one entry.
// A saved cache is stamped with a fingerprint of the module index and naming
// conventions, and is discarded when either has changed.
package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/l3aro/go-import-resolver/pkg/cpg"
)

// ErrStaleCache is returned by Load when the stored fingerprint differs from
// the cache's fingerprint.
var ErrStaleCache = errors.New("cache fingerprint mismatch")

// Key identifies a resolution.
func Key(dir, importedPath, alias string) string {
	return dir + "\x00" + importedPath + "\x00" + alias
}

// Entry is a cached resolution.
type Entry struct {
	Key  string    `msgpack:"k"`
	Tags []cpg.Tag `msgpack:"t"`
}

// snapshot is the on-disk envelope.
type snapshot struct {
	Version     int     `msgpack:"version"`
	Fingerprint string  `msgpack:"fingerprint"`
	Entries     []Entry `msgpack:"entries"`
}

const snapshotVersion = 1

// Stats reports cache effectiveness.
type Stats struct {
	Hits   int64
	Misses int64
	Len    int
}

// listItem is a node of the recency list.
type listItem struct {
	Entry
	prev *listItem
	next *listItem
}

// list is a doubly-linked list, most recently used at head.
type list struct {
	head *listItem
	tail *listItem
	len  int
}

func (l *list) pushFront(item *listItem) {
	item.prev = nil
	item.next = l.head
	if l.head != nil {
		l.head.prev = item
	}
	l.head = item
	if l.tail == nil {
		l.tail = item
	}
	l.len++
}

func (l *list) remove(item *listItem) {
	if item.prev != nil {
		item.prev.next = item.next
	} else {
		l.head = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	} else {
		l.tail = item.prev
	}
	item.prev, item.next = nil, nil
	l.len--
}

func (l *list) moveToFront(item *listItem) {
	if item == l.head {
		return
	}
	l.remove(item)
	l.pushFront(item)
}

// ResolutionCache is a thread-safe LRU of resolved tags.
type ResolutionCache struct {
	mu          sync.Mutex
	items       map[string]*listItem
	lru         *list
	maxSize     int
	fingerprint string

	hits   atomic.Int64
	misses atomic.Int64
}

// Options configures a ResolutionCache.
type Options struct {
	// MaxSize is the maximum number of entries. 0 means unlimited.
	MaxSize int
	// Fingerprint stamps saved snapshots and validates loaded ones.
	Fingerprint string
}

// New creates an empty cache.
func New(opts Options) *ResolutionCache {
	return &ResolutionCache{
		items:       make(map[string]*listItem),
		lru:         &list{},
		maxSize:     opts.MaxSize,
		fingerprint: opts.Fingerprint,
	}
}

// Get returns the tags stored under key.
func (c *ResolutionCache) Get(key string) ([]cpg.Tag, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.lru.moveToFront(item)
	return item.Tags, true
}

// Set stores tags under key, evicting the least recently used entry if full.
func (c *ResolutionCache) Set(key string, tags []cpg.Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[key]; ok {
		item.Tags = tags
		c.lru.moveToFront(item)
		return
	}

	item := &listItem{Entry: Entry{Key: key, Tags: tags}}
	c.items[key] = item
	c.lru.pushFront(item)

	for c.maxSize > 0 && c.lru.len > c.maxSize {
		oldest := c.lru.tail
		c.lru.remove(oldest)
		delete(c.items, oldest.Key)
	}
}

// Len returns the number of entries.
func (c *ResolutionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit and miss counters.
func (c *ResolutionCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Len: c.Len()}
}

// Save writes the cache to w, most recently used first.
func (c *ResolutionCache) Save(w io.Writer) error {
	c.mu.Lock()
	snap := snapshot{
		Version:     snapshotVersion,
		Fingerprint: c.fingerprint,
		Entries:     make([]Entry, 0, len(c.items)),
	}
	for item := c.lru.head; item != nil; item = item.next {
		snap.Entries = append(snap.Entries, item.Entry)
	}
	c.mu.Unlock()

	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	return nil
}

// Load replaces the cache content with a snapshot read from r. A snapshot
// with a different fingerprint or version leaves the cache empty and returns
// ErrStaleCache.
func (c *ResolutionCache) Load(r io.Reader) error {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decoding cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*listItem)
	c.lru = &list{}
	if snap.Version != snapshotVersion || snap.Fingerprint != c.fingerprint {
		return ErrStaleCache
	}

	entries := snap.Entries
	if c.maxSize > 0 && len(entries) > c.maxSize {
		entries = entries[:c.maxSize]
	}
	// push oldest first so the saved order is restored
	for i := len(entries) - 1; i >= 0; i-- {
		item := &listItem{Entry: entries[i]}
		c.items[item.Key] = item
		c.lru.pushFront(item)
	}
	return nil
}

// PersistToFile saves the cache to path, creating parent directories.
func PersistToFile(c *ResolutionCache, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()

	return c.Save(f)
}

// LoadFromFile loads the cache from path. A missing file is not an error.
func LoadFromFile(c *ResolutionCache, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	return c.Load(f)
}

// Info describes a saved cache without loading it.
type Info struct {
	Version     int
	Fingerprint string
	Entries     int
}

// InspectFile reads the header of the cache saved at path.
func InspectFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return Info{}, fmt.Errorf("decoding cache: %w", err)
	}
	return Info{Version: snap.Version, Fingerprint: snap.Fingerprint, Entries: len(snap.Entries)}, nil
}
