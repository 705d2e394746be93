package driver

import (
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"rubric/internal/config"
	"rubric/internal/diag"
	"rubric/internal/lint"
	"rubric/internal/source"
	"rubric/internal/version"
)

// Current schema version - increment when CachePayload format changes
const resultCacheSchemaVersion uint16 = 1

// ResultCache хранит офенсы файла на диске по ключу
// H(содержимое || конфигурация правил || версия).
// Thread-safe for concurrent access.
type ResultCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedOffense is an offense without its node and correction.
type CachedOffense struct {
	Rule     string
	Message  string
	Severity uint8
	Start    uint32
	End      uint32
}

// CachePayload is what one file contributes to the cache.
type CachePayload struct {
	// Schema version for safe invalidation when format changes
	Schema   uint16
	Path     string
	Offenses []CachedOffense
}

// OpenResultCache initializes and returns a cache at the standard location.
func OpenResultCache(app string) (*ResultCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewResultCache(filepath.Join(base, app))
}

// NewResultCache uses dir as the cache root.
func NewResultCache(dir string) (*ResultCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ResultCache{dir: dir}, nil
}

// Key combines the file content hash with the rule configuration and the
// tool version.
func Key(content [32]byte, rules config.Digest) config.Digest {
	return config.Combine(config.Digest(content), rules, sha256.Sum256([]byte(version.Version)))
}

func (c *ResultCache) pathFor(key config.Digest) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не копить тысячи файлов в одном
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *ResultCache) Put(key config.Digest, payload *CachePayload) error {
	if c == nil {
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
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = resultCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get reads a payload. A missing entry or one written by another schema is
// a miss, not an error.
func (c *ResultCache) Get(key config.Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != resultCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache.
func (c *ResultCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func offensesToPayload(path string, offenses []lint.Offense) *CachePayload {
	payload := &CachePayload{
		Path:     path,
		Offenses: make([]CachedOffense, len(offenses)),
	}
	for i, o := range offenses {
		payload.Offenses[i] = CachedOffense{
			Rule:     o.Rule,
			Message:  o.Message,
			Severity: uint8(o.Severity),
			Start:    o.Span.Start,
			End:      o.Span.End,
		}
	}
	return payload
}

// payloadToOffenses restores offenses against file. Spans past the end of
// the file mean a stale entry; nil is returned then.
func payloadToOffenses(payload *CachePayload, file *source.File) []lint.Offense {
	limit, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return nil
	}
	out := make([]lint.Offense, 0, len(payload.Offenses))
	for _, o := range payload.Offenses {
		if o.Start > o.End || o.End > limit {
			return nil
		}
		out = append(out, lint.Offense{
			Rule:     o.Rule,
			Message:  o.Message,
			Severity: diag.Severity(o.Severity),
			Span:     source.Span{File: file.ID, Start: o.Start, End: o.End},
		})
	}
	return out
}
