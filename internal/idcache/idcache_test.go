package idcache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGetRoundTrip(t *testing.T) {
	store := NewMemory()
	store.Put("animesdrive:naruto", "https://animesdrive.blog/naruto/")

	url, ok := store.Get("animesdrive:naruto")
	assert.True(t, ok)
	assert.Equal(t, "https://animesdrive.blog/naruto/", url)
}

func TestLastWriteWins(t *testing.T) {
	store := NewMemory()
	store.Put("id", "https://old.example/")
	store.Put("id", "https://new.example/")

	url, ok := store.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "https://new.example/", url)
}

func TestMissIsReported(t *testing.T) {
	store := NewMemory()
	url, ok := store.Get("never-written")
	assert.False(t, ok)
	assert.Empty(t, url)
}

func TestEmptyValuesIgnored(t *testing.T) {
	store := NewMemory()
	store.Put("", "https://example.com/")
	store.Put("id", "")

	_, ok := store.Get("")
	assert.False(t, ok)
	_, ok = store.Get("id")
	assert.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	store := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			store.Put(fmt.Sprintf("id-%d", n), fmt.Sprintf("https://example.com/%d", n))
		}(i)
		go func(n int) {
			defer wg.Done()
			store.Get(fmt.Sprintf("id-%d", n))
		}(i)
	}
	wg.Wait()

	url, ok := store.Get("id-25")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/25", url)
}
