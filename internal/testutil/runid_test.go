package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedRunIDGenerator("test-run-123")

	assert.Equal(t, "test-run-123", gen.Generate())
	assert.Equal(t, "test-run-123", gen.Generate())
	assert.Equal(t, "test-run-123", gen.Generate())
}

func TestFixedRunIDGenerator_EmptyIDDefault(t *testing.T) {
	gen := NewFixedRunIDGenerator("")

	assert.Equal(t, "test-run-default", gen.Generate())
}

func TestSequenceRunIDGenerator_Increments(t *testing.T) {
	gen := NewSequenceRunIDGenerator()

	assert.Equal(t, "test-run-000001", gen.Generate())
	assert.Equal(t, "test-run-000002", gen.Generate())
	assert.Equal(t, "test-run-000003", gen.Generate())
}

func TestSequenceRunIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequenceRunIDGenerator()

	var wg sync.WaitGroup
	seen := make(chan string, 100)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				seen <- gen.Generate()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[string]bool)
	for id := range seen {
		assert.False(t, unique[id], "duplicate run ID %s", id)
		unique[id] = true
	}
	assert.Len(t, unique, 100)
}
