package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndResolve(t *testing.T) {
	s := NewStore()

	a, err := s.Issue(1)
	require.NoError(t, err)
	b, err := s.Issue(1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	id, ok := s.Resolve(a)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), id)

	id, ok = s.Resolve(b)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), id)

	_, ok = s.Resolve("unknown")
	assert.False(t, ok)
}

func TestStoresAreIsolated(t *testing.T) {
	s1, s2 := NewStore(), NewStore()
	tok, err := s1.Issue(7)
	require.NoError(t, err)

	_, ok := s2.Resolve(tok)
	assert.False(t, ok)
}

func TestConcurrentIssue(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			tok, err := s.Issue(uid)
			if !assert.NoError(t, err) {
				return
			}
			got, ok := s.Resolve(tok)
			assert.True(t, ok)
			assert.Equal(t, uid, got)
		}(uint64(i))
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
