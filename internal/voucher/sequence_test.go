package voucher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySequencer(t *testing.T) {
	seq := NewMemorySequencer()
	ctx := context.Background()

	n, err := seq.Next(ctx, "JV-2024")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = seq.Next(ctx, "JV-2024")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = seq.Next(ctx, "PV-2024")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemorySequencer_Seed(t *testing.T) {
	seq := NewMemorySequencer()
	seq.Seed("JV-2024", 41)
	seq.Seed("JV-2024", 3)

	n, err := seq.Next(context.Background(), "JV-2024")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestMemorySequencer_Concurrent(t *testing.T) {
	seq := NewMemorySequencer()
	ctx := context.Background()

	const workers = 50
	seen := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := seq.Next(ctx, "JV-2024")
			assert.NoError(t, err)
			seen <- n
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int]bool)
	for n := range seen {
		unique[n] = true
	}
	assert.Len(t, unique, workers)
	assert.Equal(t, workers, seq.Current("JV-2024"))
}

func TestMemorySequencer_CanceledContext(t *testing.T) {
	seq := NewMemorySequencer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := seq.Next(ctx, "JV-2024")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, seq.Current("JV-2024"))
}

func TestFileSequencer_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "sequences.json")
	ctx := context.Background()

	seq, err := OpenFileSequencer(path)
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		n, err := seq.Next(ctx, "JV-2024")
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	reopened, err := OpenFileSequencer(path)
	require.NoError(t, err)
	assert.Equal(t, 3, reopened.Current("JV-2024"))

	n, err := reopened.Next(ctx, "JV-2024")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestFileSequencer_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	seq, err := OpenFileSequencer(filepath.Join(dir, "sequences.json"))
	require.NoError(t, err)

	_, err = seq.Next(context.Background(), "RV-2024")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"sequences.json", "sequences.json.lock"}, names)
}

func TestFileSequencer_SharedStateFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "sequences.json")

	server, err := OpenFileSequencer(path)
	require.NoError(t, err)
	n, err := server.Next(ctx, "JV-2024")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cli, err := OpenFileSequencer(path)
	require.NoError(t, err)
	n, err = cli.Next(ctx, "JV-2024")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = server.Next(ctx, "JV-2024")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "the server must see the number the CLI drew")
	assert.Equal(t, 3, server.Current("JV-2024"))

	reopened, err := OpenFileSequencer(path)
	require.NoError(t, err)
	assert.Equal(t, 3, reopened.Current("JV-2024"))
}

func TestFileSequencer_ConcurrentSequencers(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sequences.json")

	const sequencers, perSequencer = 4, 25
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]bool)
	)
	for i := 0; i < sequencers; i++ {
		seq, err := OpenFileSequencer(path)
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSequencer; j++ {
				n, err := seq.Next(ctx, "PV-2024")
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				assert.False(t, seen[n], "number %d handed out twice", n)
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, sequencers*perSequencer)
	final, err := OpenFileSequencer(path)
	require.NoError(t, err)
	assert.Equal(t, sequencers*perSequencer, final.Current("PV-2024"))
}

func TestFileSequencer_CanceledContext(t *testing.T) {
	seq, err := OpenFileSequencer(filepath.Join(t.TempDir(), "sequences.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = seq.Next(ctx, "JV-2024")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, seq.Current("JV-2024"))
}

func TestFileSequencer_CorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sequences.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenFileSequencer(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing sequence state")
}

func TestRedisSequencer(t *testing.T) {
	addr := os.Getenv("LEDGERBOOK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEDGERBOOK_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()

	prefix := "ledgerbook-test:" + t.Name() + ":"
	t.Cleanup(func() { client.Del(context.Background(), prefix+"JV-2024") })

	seq := NewRedisSequencer(client, prefix)
	n, err := seq.Next(ctx, "JV-2024")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = seq.Next(ctx, "JV-2024")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
