package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionID(t *testing.T) {
	id, err := NewSessionID()
	require.NoError(t, err)
	assert.Len(t, id, 24)
	assert.Regexp(t, `^[A-Za-z0-9_-]+$`, id)
}

func TestNewSessionID_ConcurrentUnique(t *testing.T) {
	const n = 200
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := NewSessionID()
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate session id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestNewResetSecret(t *testing.T) {
	a, err := NewResetSecret()
	require.NoError(t, err)
	b, err := NewResetSecret()
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}

func TestHashToken(t *testing.T) {
	h := HashToken("secret")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("secret"))
	assert.NotEqual(t, h, HashToken("secret2"))
	assert.Equal(t, "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b", h)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
	assert.False(t, CheckPassword("", "correct horse"))
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "correct horse"))
}
