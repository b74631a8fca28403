package decl

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/foryearslater/afsim-sub009/internal/source"
)

// Current schema version - increment when cachePayload format changes
const cacheSchemaVersion uint16 = 1

// Digest is the SHA-256 of a declaration document.
type Digest [32]byte

// DigestOf hashes declaration text.
func DigestOf(data []byte) Digest { return sha256.Sum256(data) }

// DiskCache хранит разобранные декларации по хешу текста.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema uint16
	Set    Set
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheDir(filepath.Join(base, app))
}

// OpenDiskCacheDir opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "decls", hex.EncodeToString(key[:])+".mp")
}

// Put serializes set under key.
func (c *DiskCache) Put(key Digest, set *Set) error {
	if c == nil || set == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := msgpack.NewEncoder(f).Encode(&cachePayload{Schema: cacheSchemaVersion, Set: *set}); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode declarations: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get loads the set stored under key. A payload of another schema is a miss.
func (c *DiskCache) Get(key Digest) (*Set, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode declarations: %w", err)
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &payload.Set, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// LoadCached is Load through cache: the file is still registered in fs, but
// decoding the TOML is skipped when a set with the same digest is cached.
// hit reports whether the cache answered.
func LoadCached(cache *DiskCache, fs *source.FileSet, path string) (set *Set, hit bool, err error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, false, fmt.Errorf("read declarations: %w", err)
	}
	content := fs.Get(id).Content
	key := DigestOf(content)
	if cached, ok, err := cache.Get(key); err == nil && ok {
		cached.Name = path
		cached.File = id
		return cached, true, nil
	}
	set, err = Parse(path, content)
	if err != nil {
		return nil, false, err
	}
	set.File = id
	if err := cache.Put(key, set); err != nil {
		return set, false, fmt.Errorf("write declaration cache: %w", err)
	}
	return set, false, nil
}
