package cache

import "time"

type expiringItem[V any] struct {
	value     V
	expiresAt time.Time
}

// Expiring is a Cache whose entries stop being returned once their TTL has
// elapsed. Stale entries are dropped lazily on Get or in bulk by Purge.
type Expiring[K comparable, V any] struct {
	items *Cache[K, expiringItem[V]]
	now   func() time.Time
}

func NewExpiring[K comparable, V any]() *Expiring[K, V] {
	return NewExpiringWithClock[K, V](time.Now)
}

func NewExpiringWithClock[K comparable, V any](now func() time.Time) *Expiring[K, V] {
	return &Expiring[K, V]{
		items: NewCache[K, expiringItem[V]](),
		now:   now,
	}
}

func (e *Expiring[K, V]) Get(key K) (V, bool) {
	item, ok := e.items.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if !e.now().Before(item.expiresAt) {
		e.items.Delete(key)
		var zero V
		return zero, false
	}
	return item.value, true
}

// Set stores value for ttl. A non-positive ttl stores nothing.
func (e *Expiring[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	e.items.Set(key, expiringItem[V]{value: value, expiresAt: e.now().Add(ttl)})
}

func (e *Expiring[K, V]) Delete(key K) {
	e.items.Delete(key)
}

// Purge removes every expired entry and returns how many were removed.
func (e *Expiring[K, V]) Purge() int {
	now := e.now()
	return e.items.DeleteFunc(func(_ K, item expiringItem[V]) bool {
		return !now.Before(item.expiresAt)
	})
}

func (e *Expiring[K, V]) Len() int {
	return e.items.Len()
}

func (e *Expiring[K, V]) Clear() {
	e.items.Clear()
}
