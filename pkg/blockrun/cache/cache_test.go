package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// TestEntry_Fresh tests TTL freshness at boundaries.
func TestEntry_Fresh(t *testing.T) {
	now := time.Now()
	e := Entry{Result: "r", CapturedAt: now}

	assert.True(t, e.Fresh(now.Add(599*time.Second), 600*time.Second))
	assert.False(t, e.Fresh(now.Add(600*time.Second), 600*time.Second))
	assert.False(t, e.Fresh(now.Add(601*time.Second), 600*time.Second))
}

// TestPolicy_Cacheable tests the cache_result / disabled interaction.
func TestPolicy_Cacheable(t *testing.T) {
	cached := block.New("shell", "a", []block.Modifier{
		{Key: "cache_result", Value: "true"},
	}, "date")
	plain := block.New("shell", "b", nil, "date")

	var p Policy
	assert.True(t, p.Cacheable(cached))
	assert.False(t, p.Cacheable(plain))
	assert.False(t, p.Cacheable(nil))

	p.Disabled = true
	assert.False(t, p.Cacheable(cached))
}

// TestPolicy_CacheableTruthyValues tests the truthy value set for
// cache_result.
func TestPolicy_CacheableTruthyValues(t *testing.T) {
	var p Policy
	for _, v := range []string{"true", "yes", "1", "on", "YES"} {
		b := block.New("shell", "a", []block.Modifier{
			{Key: "cache_result", Value: v},
		}, "date")
		assert.True(t, p.Cacheable(b), "value %q", v)
	}
	for _, v := range []string{"false", "no", "0", "off", ""} {
		b := block.New("shell", "a", []block.Modifier{
			{Key: "cache_result", Value: v},
		}, "date")
		assert.False(t, p.Cacheable(b), "value %q", v)
	}
}

// TestPolicy_TTL tests precedence: block timeout, policy default, hard default.
func TestPolicy_TTL(t *testing.T) {
	withTimeout := block.New("shell", "a", []block.Modifier{
		{Key: "timeout", Value: "30"},
	}, "date")
	without := block.New("shell", "b", nil, "date")

	var p Policy
	assert.Equal(t, 30*time.Second, p.TTL(withTimeout))
	assert.Equal(t, DefaultTTL, p.TTL(without))
	assert.Equal(t, DefaultTTL, p.TTL(nil))

	p.DefaultTTL = 90 * time.Second
	assert.Equal(t, 30*time.Second, p.TTL(withTimeout), "block timeout wins over configured default")
	assert.Equal(t, 90*time.Second, p.TTL(without))
}

// storeUnderTest exercises the Store contract against any implementation.
func storeUnderTest(t *testing.T, s Store) {
	t.Helper()

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.Put("a", Entry{Result: "one", CapturedAt: at}))

	e, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "one", e.Result)
	assert.True(t, e.CapturedAt.Equal(at))

	// Put replaces.
	require.NoError(t, s.Put("a", Entry{Result: "two", CapturedAt: at}))
	e, err = s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "two", e.Result)

	// Delete is idempotent.
	require.NoError(t, s.Delete("a"))
	require.NoError(t, s.Delete("a"))
	_, err = s.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put("b", Entry{Result: "b", CapturedAt: at}))
	require.NoError(t, s.Put("c", Entry{Result: "c", CapturedAt: at}))
	require.NoError(t, s.Purge())
	_, err = s.Get("b")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Close())
	err = s.Put("x", Entry{Result: "x", CapturedAt: at})
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	storeUnderTest(t, s)
}

// TestSQLiteStore_Persistence tests entries survive reopening the same file.
func TestSQLiteStore_Persistence(t *testing.T) {
	path := t.TempDir() + "/cache.db"
	at := time.Now().UTC()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("a", Entry{Result: "kept", CapturedAt: at}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	e, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "kept", e.Result)
}

// TestSQLiteStore_CloseTwice tests double close is safe.
func TestSQLiteStore_CloseTwice(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
