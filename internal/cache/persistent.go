package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/amvnote/amvnote/filesystem"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

type persistentData[V any] struct {
	Entries map[string]V `json:"entries"`
}

// Persistent is an on-disk map keyed by media file identity. Entries are
// keyed by path, size and modification time, so an edited file misses.
type Persistent[V any] struct {
	mu       sync.RWMutex
	internal *gache.Cache[*persistentData[V]]
}

// NewPersistent opens the store at path. Entries older than lifetime are
// dropped as a whole.
func NewPersistent[V any](path string, lifetime time.Duration) *Persistent[V] {
	return &Persistent[V]{
		internal: gache.New[*persistentData[V]](filesystem.GacheOptions(path, lifetime)),
	}
}

// Identity returns the store key for path, or false when the file cannot be
// stat'ed.
func Identity(path string) (string, bool) {
	info, ok := filesystem.Regular(path)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s|%d|%d", MediaKey(path), info.Size(), info.ModTime().UnixNano()), true
}

func (p *Persistent[V]) Get(path string) mo.Option[V] {
	id, ok := Identity(path)
	if !ok {
		return mo.None[V]()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	data, expired, err := p.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[V]()
	}

	if v, ok := data.Entries[id]; ok {
		return mo.Some(v)
	}
	return mo.None[V]()
}

// Set stores v for path. Files that cannot be stat'ed are skipped.
func (p *Persistent[V]) Set(path string, v V) error {
	id, ok := Identity(path)
	if !ok {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	data, expired, err := p.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil || data.Entries == nil {
		data = &persistentData[V]{Entries: make(map[string]V)}
	}
	data.Entries[id] = v
	return p.internal.Set(data)
}

// Len counts stored entries, expired stores count as empty.
func (p *Persistent[V]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, expired, err := p.internal.Get()
	if err != nil || expired || data == nil {
		return 0
	}
	return len(data.Entries)
}
