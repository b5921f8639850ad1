package nodeid

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_Monotonic(t *testing.T) {
	c := NewCounter(DefaultPrefix)
	assert.Equal(t, "dndnode_0", c.Next())
	assert.Equal(t, "dndnode_1", c.Next())
	assert.Equal(t, "dndnode_2", c.Next())

	c.Reset()
	assert.Equal(t, "dndnode_0", c.Next())
}

func TestCounter_ConcurrentUnique(t *testing.T) {
	c := NewCounter("n")
	const workers = 50
	ids := make(chan string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			ids <- c.Next()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{})
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "id %s minted twice", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers)
}

func TestUUID_Prefix(t *testing.T) {
	u := NewUUID("node-")
	a, b := u.Next(), u.Next()
	assert.True(t, strings.HasPrefix(a, "node-"))
	assert.NotEqual(t, a, b)
}

func TestParseHandle(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  HandleRef
		index     int
		indexOK   bool
	}{
		{name: "item index", raw: "item-1", expected: HandleRef{Prefix: "item", Key: "1"}, index: 1, indexOK: true},
		{name: "option index", raw: "option-12", expected: HandleRef{Prefix: "option", Key: "12"}, index: 12, indexOK: true},
		{name: "stable key", raw: "item-k4", expected: HandleRef{Prefix: "item", Key: "k4"}},
		{name: "negative key is not an index", raw: "item--1", expected: HandleRef{Prefix: "item", Key: "-1"}},
		{name: "error - empty", raw: "", expectErr: true},
		{name: "error - no separator", raw: "item", expectErr: true},
		{name: "error - missing prefix", raw: "-3", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseHandle(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ref)
			assert.Equal(t, tc.raw, ref.String())

			idx, ok := ref.Index()
			assert.Equal(t, tc.indexOK, ok)
			if ok {
				assert.Equal(t, tc.index, idx)
			}
		})
	}
}

func TestHandleBuilders(t *testing.T) {
	assert.Equal(t, "item-0", IndexHandle(ItemPrefix, 0))
	assert.Equal(t, "option-3", IndexHandle(OptionPrefix, 3))
	assert.Equal(t, "item-k9", KeyHandle(ItemPrefix, "k9"))
}
