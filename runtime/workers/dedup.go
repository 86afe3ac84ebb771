package workers

import "sync"

// Deduplicator remembers the last N keys it has seen.
// It guards broadcasts against a transport delivering the same message twice.
type Deduplicator struct {
	mu       sync.Mutex
	capacity int
	seen     map[string]struct{}
	order    []string
}

func NewDeduplicator(capacity int) *Deduplicator {
	if capacity < 1 {
		capacity = 1
	}
	return &Deduplicator{capacity: capacity, seen: make(map[string]struct{}, capacity)}
}

// Seen records the key and reports whether it was already known.
func (d *Deduplicator) Seen(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if len(d.order) == d.capacity {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}
	d.seen[key] = struct{}{}
	d.order = append(d.order, key)
	return false
}
