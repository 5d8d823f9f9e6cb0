package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eon-interface/idealworld/internal/keylock"
	"github.com/eon-interface/idealworld/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynth struct {
	calls int32
	delay time.Duration
	err   error
	texts []string
	mu    sync.Mutex
}

func (f *fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3:" + text), nil
}

// gatedSynth blocks every call until release is closed or its ctx ends.
type gatedSynth struct {
	calls   int32
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newGatedSynth() *gatedSynth {
	return &gatedSynth{started: make(chan struct{}), release: make(chan struct{})}
}

func (f *gatedSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	f.once.Do(func() { close(f.started) })
	select {
	case <-f.release:
		return []byte("mp3:" + text), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("greeting did not return")
		return nil
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "ana_maria", SanitizeName("Ana Maria"))
	assert.Equal(t, "a_b_c", SanitizeName(`A/B\C`))
	assert.Equal(t, "joão", SanitizeName("JOÃO"))
	assert.Equal(t, "audio_ana_maria.mp3", FileName("Ana Maria"))
}

func TestGreeter_GeneratesOnceThenReuses(t *testing.T) {
	dir := storage.NewDir(filepath.Join(t.TempDir(), "audios"))
	synth := &fakeSynth{}
	g := NewGreeter(synth, dir, keylock.NewLocal(), 0)

	p1, err := g.Greeting(context.Background(), "Ana")
	require.NoError(t, err)
	p2, err := g.Greeting(context.Background(), "Ana")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, filepath.Join(dir.Root(), "audio_ana.mp3"), p1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&synth.calls))
	assert.Equal(t, []string{"Olá, Ana, como você imagina o mundo perfeito?"}, synth.texts)

	data, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "mp3:Olá, Ana, como você imagina o mundo perfeito?", string(data))
}

func TestGreeter_ExistingFileIsReused(t *testing.T) {
	dir := storage.NewDir(t.TempDir())
	require.NoError(t, dir.WriteAtomic("audio_ana.mp3", []byte("cached")))
	synth := &fakeSynth{}

	p, err := NewGreeter(synth, dir, keylock.NewLocal(), 0).Greeting(context.Background(), "ana")
	require.NoError(t, err)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "cached", string(data))
	assert.Equal(t, int32(0), atomic.LoadInt32(&synth.calls))
}

func TestGreeter_ConcurrentSameNameOneCall(t *testing.T) {
	dir := storage.NewDir(t.TempDir())
	synth := &fakeSynth{delay: 20 * time.Millisecond}
	g := NewGreeter(synth, dir, keylock.NewLocal(), 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Greeting(context.Background(), "Ana")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&synth.calls))
}

func TestGreeter_ReplicasShareRedisLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	// two greeters stand in for two processes sharing one audio volume
	dir := storage.NewDir(t.TempDir())
	synth := &fakeSynth{delay: 20 * time.Millisecond}
	a := NewGreeter(synth, dir, keylock.NewRedis(client, time.Minute), time.Minute)
	b := NewGreeter(synth, dir, keylock.NewRedis(client, time.Minute), time.Minute)

	var wg sync.WaitGroup
	for _, g := range []*Greeter{a, b, a, b} {
		wg.Add(1)
		go func(g *Greeter) {
			defer wg.Done()
			_, err := g.Greeting(context.Background(), "Bia")
			assert.NoError(t, err)
		}(g)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&synth.calls))
}

func TestGreeter_SynthesisFailureWritesNothing(t *testing.T) {
	dir := storage.NewDir(t.TempDir())
	synth := &fakeSynth{err: errors.New("quota exceeded")}
	g := NewGreeter(synth, dir, keylock.NewLocal(), 0)

	_, err := g.Greeting(context.Background(), "Ana")
	require.Error(t, err)
	assert.False(t, dir.Exists("audio_ana.mp3"))

	// a later request retries the generation
	synth.err = nil
	_, err = g.Greeting(context.Background(), "Ana")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&synth.calls))
}

func TestGreeter_FirstCallerLeavingDoesNotFailOthers(t *testing.T) {
	dir := storage.NewDir(t.TempDir())
	synth := newGatedSynth()
	g := NewGreeter(synth, dir, keylock.NewLocal(), time.Minute)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := g.Greeting(firstCtx, "Ana")
		first <- err
	}()
	<-synth.started

	second := make(chan error, 1)
	go func() {
		_, err := g.Greeting(context.Background(), "Ana")
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, waitErr(t, first), context.Canceled)

	close(synth.release)
	require.NoError(t, waitErr(t, second))
	assert.True(t, dir.Exists("audio_ana.mp3"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&synth.calls))
}

func TestGreeter_GenerationIsBounded(t *testing.T) {
	dir := storage.NewDir(t.TempDir())
	synth := newGatedSynth()
	g := NewGreeter(synth, dir, keylock.NewLocal(), 30*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := g.Greeting(context.Background(), "Ana")
		done <- err
	}()

	assert.ErrorIs(t, waitErr(t, done), context.DeadlineExceeded)
	assert.False(t, dir.Exists("audio_ana.mp3"))
}
