package cache

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
)

func TestNewCache(t *testing.T) {
	t.Run("String cache", func(t *testing.T) {
		cache := NewCache[string, string]()
		if cache == nil {
			t.Fatal("Expected non-nil cache")
		}
		if cache.items == nil {
			t.Fatal("Expected items map to be initialized")
		}
	})

	t.Run("Integer cache", func(t *testing.T) {
		cache := NewCache[int, string]()
		if cache == nil {
			t.Fatal("Expected non-nil cache")
		}
	})

	t.Run("Complex types cache", func(t *testing.T) {
		type TestStruct struct {
			ID   int
			Name string
		}
		cache := NewCache[string, *TestStruct]()
		if cache == nil {
			t.Fatal("Expected non-nil cache")
		}
	})
}

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Set and Get", func(t *testing.T) {
		key := "test-key"
		value := "test-value"

		// Set value
		cache.Set(key, value)

		// Get value
		got, exists := cache.Get(key)
		if !exists {
			t.Error("Expected key to exist")
		}
		if got != value {
			t.Errorf("Expected %q, got %q", value, got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, exists := cache.Get("non-existent")
		if exists {
			t.Error("Expected key to not exist")
		}
	})

	t.Run("Overwrite existing key", func(t *testing.T) {
		key := "overwrite-key"
		value1 := "value1"
		value2 := "value2"

		cache.Set(key, value1)
		cache.Set(key, value2)

		got, exists := cache.Get(key)
		if !exists {
			t.Error("Expected key to exist")
		}
		if got != value2 {
			t.Errorf("Expected %q, got %q", value2, got)
		}
	})
}

func TestCache_Delete(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Delete existing key", func(t *testing.T) {
		key := "delete-key"
		value := "delete-value"

		cache.Set(key, value)
		cache.Delete(key)

		_, exists := cache.Get(key)
		if exists {
			t.Error("Expected key to be deleted")
		}
	})

	t.Run("Delete non-existent key", func(t *testing.T) {
		// Should not panic
		cache.Delete("non-existent")
	})
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Clear populated cache", func(t *testing.T) {
		// Add multiple items
		cache.Set("key1", "value1")
		cache.Set("key2", "value2")
		cache.Set("key3", "value3")

		// Clear cache
		cache.Clear()

		// Verify all items are gone
		_, exists1 := cache.Get("key1")
		_, exists2 := cache.Get("key2")
		_, exists3 := cache.Get("key3")

		if exists1 || exists2 || exists3 {
			t.Error("Expected all keys to be cleared")
		}
	})

	t.Run("Clear empty cache", func(t *testing.T) {
		cache.Clear() // Should not panic
	})
}

func TestCache_Concurrency(t *testing.T) {
	cache := NewCache[int, string]()
	const numGoroutines = 100
	const numOperations = 1000

	t.Run("Concurrent reads and writes", func(t *testing.T) {
		var wg sync.WaitGroup

		// Writers
		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				for j := 0; j < numOperations; j++ {
					key := id*numOperations + j
					value := fmt.Sprintf("value-%d-%d", id, j)
					cache.Set(key, value)
				}
			}(i)
		}

		// Readers
		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				for j := 0; j < numOperations; j++ {
					key := id*numOperations + j
					cache.Get(key) // Don't check result as it may not exist yet
				}
			}(i)
		}

		wg.Wait()
	})

	t.Run("Concurrent deletes", func(t *testing.T) {
		// Pre-populate cache
		for i := 0; i < 1000; i++ {
			cache.Set(i, fmt.Sprintf("value-%d", i))
		}

		var wg sync.WaitGroup
		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					key := id*10 + j
					cache.Delete(key)
				}
			}(i)
		}

		wg.Wait()
	})

	t.Run("Concurrent clear operations", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cache.Clear()
			}()
		}

		wg.Wait()
	})
}

func TestCache_DeleteFunc(t *testing.T) {
	cache := NewCache[string, int]()
	for i := 0; i < 10; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), i)
	}

	removed := cache.DeleteFunc(func(_ string, v int) bool { return v%2 == 0 })
	if removed != 5 {
		t.Errorf("Expected 5 removed entries, got %d", removed)
	}
	if cache.Len() != 5 {
		t.Errorf("Expected 5 remaining entries, got %d", cache.Len())
	}
	if _, ok := cache.Get("key-2"); ok {
		t.Error("Expected even entry to be removed")
	}
	if _, ok := cache.Get("key-3"); !ok {
		t.Error("Expected odd entry to remain")
	}
}

func TestRenderedHTMLCache(t *testing.T) {
	ClearRenderedHTMLCache()

	t.Run("Set and get rendered HTML", func(t *testing.T) {
		html := []byte(`<pre class="chroma">x</pre>`)
		SetRenderedHTML("test-hash", "github", html)

		cached, found := GetRenderedHTML("test-hash", "github")
		if !found {
			t.Fatal("Expected cached content to be found")
		}
		if !bytes.Equal(cached, html) {
			t.Errorf("Expected HTML %q, got %q", string(html), string(cached))
		}
	})

	t.Run("Different syntax theme creates separate entries", func(t *testing.T) {
		SetRenderedHTML("same-hash", "github", []byte("light"))
		SetRenderedHTML("same-hash", "monokai", []byte("dark"))

		light, found1 := GetRenderedHTML("same-hash", "github")
		dark, found2 := GetRenderedHTML("same-hash", "monokai")
		if !found1 || !found2 {
			t.Fatal("Expected both cached contents to be found")
		}
		if bytes.Equal(light, dark) {
			t.Error("Expected different HTML for different themes")
		}
	})

	t.Run("Clear rendered HTML cache", func(t *testing.T) {
		SetRenderedHTML("hash1", "theme1", []byte("html1"))
		ClearRenderedHTMLCache()

		if _, found := GetRenderedHTML("hash1", "theme1"); found {
			t.Error("Expected all cached content to be cleared")
		}
	})

	t.Run("Get non-existent cached content", func(t *testing.T) {
		if _, found := GetRenderedHTML("non-existent", "theme"); found {
			t.Error("Expected non-existent content to not be found")
		}
	})
}

func BenchmarkCache_Set(b *testing.B) {
	cache := NewCache[int, string]()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		cache.Set(i, "value")
	}
}

func BenchmarkCache_Get(b *testing.B) {
	cache := NewCache[int, string]()
	for i := 0; i < 1000; i++ {
		cache.Set(i, "value")
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		cache.Get(i % 1000)
	}
}
