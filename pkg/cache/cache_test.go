package cache

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-import-resolver/pkg/cpg"
)

func tags(values ...string) []cpg.Tag {
	out := make([]cpg.Tag, 0, len(values))
	for _, v := range values {
		out = append(out, cpg.Tag{Name: "UNKNOWN_IMPORT", Value: v})
	}
	return out
}

func TestResolutionCache_Basic(t *testing.T) {
	c := New(Options{MaxSize: 3})

	c.Set("a", tags("a.py:<module>"))
	c.Set("b", tags("b.py:<module>"))

	got, found := c.Get("a")
	require.True(t, found)
	assert.Equal(t, tags("a.py:<module>"), got)

	_, found = c.Get("missing")
	assert.False(t, found)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 2, stats.Len)
}

func TestResolutionCache_LRUEviction(t *testing.T) {
	c := New(Options{MaxSize: 3})

	c.Set("a", tags("a"))
	c.Set("b", tags("b"))
	c.Set("c", tags("c"))

	// touch 'a' so 'b' becomes the oldest
	c.Get("a")
	c.Set("d", tags("d"))

	assert.Equal(t, 3, c.Len())
	_, found := c.Get("b")
	assert.False(t, found, "b should have been evicted")
	for _, k := range []string{"a", "c", "d"} {
		_, found = c.Get(k)
		assert.True(t, found, "%s should still be present", k)
	}
}

func TestResolutionCache_SetOverwrites(t *testing.T) {
	c := New(Options{})

	c.Set("a", tags("old"))
	c.Set("a", tags("new"))

	got, _ := c.Get("a")
	assert.Equal(t, tags("new"), got)
	assert.Equal(t, 1, c.Len())
}

func TestResolutionCache_SaveLoad(t *testing.T) {
	c := New(Options{MaxSize: 10, Fingerprint: "abc"})
	c.Set("k1", tags("v1"))
	c.Set("k2", tags("v2"))

	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf))

	restored := New(Options{MaxSize: 10, Fingerprint: "abc"})
	require.NoError(t, restored.Load(&buf))

	assert.Equal(t, 2, restored.Len())
	got, found := restored.Get("k1")
	require.True(t, found)
	assert.Equal(t, tags("v1"), got)
}

func TestResolutionCache_StaleFingerprint(t *testing.T) {
	c := New(Options{Fingerprint: "old"})
	c.Set("k1", tags("v1"))

	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf))

	fresh := New(Options{Fingerprint: "new"})
	fresh.Set("kept?", tags("no"))
	err := fresh.Load(&buf)

	assert.ErrorIs(t, err, ErrStaleCache)
	assert.Zero(t, fresh.Len())
}

func TestResolutionCache_PersistToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "resolve.cache")

	c := New(Options{Fingerprint: "fp"})
	c.Set(Key("pkg", "numpy", "np"), tags("numpy.py:<module>"))
	require.NoError(t, PersistToFile(c, path))

	loaded := New(Options{Fingerprint: "fp"})
	require.NoError(t, LoadFromFile(loaded, path))

	got, found := loaded.Get(Key("pkg", "numpy", "np"))
	require.True(t, found)
	assert.Equal(t, tags("numpy.py:<module>"), got)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	c := New(Options{})
	assert.NoError(t, LoadFromFile(c, filepath.Join(t.TempDir(), "absent")))
}

func TestKey_DistinguishesFields(t *testing.T) {
	assert.NotEqual(t, Key("a", "b.c", "d"), Key("a.b", "c", "d"))
	assert.NotEqual(t, Key("", "x", "y"), Key("x", "", "y"))
}

func TestResolutionCache_Concurrent(t *testing.T) {
	c := New(Options{MaxSize: 50})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := Key("dir", string(rune('a'+n)), string(rune('a'+j%26)))
				if _, ok := c.Get(key); !ok {
					c.Set(key, tags(key))
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}

func TestInspectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.msgpack")
	c := New(Options{MaxSize: 10, Fingerprint: "abc"})
	c.Set("a", nil)
	c.Set("b", nil)
	require.NoError(t, PersistToFile(c, path))

	info, err := InspectFile(path)
	require.NoError(t, err)
	assert.Equal(t, Info{Version: snapshotVersion, Fingerprint: "abc", Entries: 2}, info)

	_, err = InspectFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
