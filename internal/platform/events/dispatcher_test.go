package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	name string
	id   int
}

func (e testEvent) EventName() string     { return e.name }
func (e testEvent) OccurredAt() time.Time { return time.Time{} }

type recorder struct {
	mu   sync.Mutex
	seen map[int]int
}

func newRecorder() *recorder { return &recorder{seen: map[int]int{}} }

func (r *recorder) Handle(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[event.(testEvent).id]++
	return nil
}

func (r *recorder) count(id int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[id]
}

func TestDispatcher_DeliversOncePerSubscriber(t *testing.T) {
	d := NewDispatcher(WithWorkers(3), WithBufferSize(64))
	first, second, other := newRecorder(), newRecorder(), newRecorder()
	d.Subscribe("purchase", "first", first)
	d.Subscribe("purchase", "second", second)
	d.Subscribe("other", "other", other)
	d.Start(context.Background())

	for i := 0; i < 20; i++ {
		require.True(t, d.Publish(context.Background(), testEvent{name: "purchase", id: i}))
	}
	require.NoError(t, d.Shutdown(context.Background()))

	for i := 0; i < 20; i++ {
		assert.Equal(t, 1, first.count(i))
		assert.Equal(t, 1, second.count(i))
		assert.Zero(t, other.count(i))
	}
	stats := d.Stats()
	assert.Equal(t, uint64(20), stats.Published)
	assert.Equal(t, uint64(40), stats.Delivered)
	assert.Zero(t, stats.Pending)
}

func TestDispatcher_PublishDoesNotBlockWhenFull(t *testing.T) {
	release := make(chan struct{})
	d := NewDispatcher(WithWorkers(1), WithBufferSize(1))
	d.Subscribe("purchase", "slow", SubscriberFunc(func(context.Context, Event) error {
		<-release
		return nil
	}))
	d.Start(context.Background())

	accepted := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			if d.Publish(context.Background(), testEvent{name: "purchase", id: i}) {
				accepted++
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full buffer")
	}

	assert.LessOrEqual(t, accepted, 2)
	assert.Equal(t, uint64(10-accepted), d.Stats().Dropped)
	close(release)
	require.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_IsolatesFailingSubscribers(t *testing.T) {
	d := NewDispatcher(WithWorkers(2))
	healthy := newRecorder()
	d.Subscribe("purchase", "erroring", SubscriberFunc(func(context.Context, Event) error {
		return errors.New("boom")
	}))
	d.Subscribe("purchase", "panicking", SubscriberFunc(func(context.Context, Event) error {
		panic("kaboom")
	}))
	d.Subscribe("purchase", "healthy", healthy)
	d.Start(context.Background())

	require.True(t, d.Publish(context.Background(), testEvent{name: "purchase", id: 1}))
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, 1, healthy.count(1))
	stats := d.Stats()
	assert.Equal(t, uint64(2), stats.Failed)
	assert.Equal(t, uint64(1), stats.Delivered)
}

func TestDispatcher_SubscribersSurvivePublisherCancellation(t *testing.T) {
	d := NewDispatcher()
	var sawCanceled atomic.Bool
	d.Subscribe("purchase", "ctx", SubscriberFunc(func(ctx context.Context, _ Event) error {
		sawCanceled.Store(ctx.Err() != nil)
		return nil
	}))
	d.Start(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, d.Publish(ctx, testEvent{name: "purchase"}))
	cancel()
	require.NoError(t, d.Shutdown(context.Background()))

	assert.False(t, sawCanceled.Load())
}

func TestDispatcher_RejectsAfterShutdown(t *testing.T) {
	d := NewDispatcher()
	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))

	assert.False(t, d.Publish(context.Background(), testEvent{name: "purchase"}))
	assert.Equal(t, uint64(1), d.Stats().Dropped)
	assert.ErrorIs(t, d.Shutdown(context.Background()), ErrClosed)
}
