package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/playdeck/internal/app/player"
)

type recordingStream struct {
	mu   sync.Mutex
	got  []*Notification
	err  error
	wait time.Duration
}

func (s *recordingStream) Send(n *Notification) error {
	if s.wait > 0 {
		time.Sleep(s.wait)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.err
}

func (s *recordingStream) received() []*Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Notification, len(s.got))
	copy(out, s.got)
	return out
}

func TestManager_SubscribeUnsubscribe(t *testing.T) {
	m := NewManager()

	id1 := m.Subscribe(&recordingStream{})
	id2 := m.Subscribe(&recordingStream{})
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, m.SubscriberCount())

	m.Unsubscribe(id1)
	assert.Equal(t, 1, m.SubscriberCount())

	m.Close()
	assert.Equal(t, 0, m.SubscriberCount())
}

func TestManager_BroadcastSequence(t *testing.T) {
	m := NewManager()
	a := &recordingStream{}
	b := &recordingStream{err: errors.New("gone")}
	m.Subscribe(a)
	m.Subscribe(b)

	m.Broadcast(&Notification{Type: "progress"})
	m.Broadcast(&Notification{Type: "seeked"})

	got := a.received()
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].SequenceNo)
	assert.Equal(t, uint64(2), got[1].SequenceNo)
	assert.Len(t, b.received(), 2, "a failing stream still receives attempts")
}

func TestManager_SlowSubscriberDoesNotBlock(t *testing.T) {
	m := NewManager()
	m.Subscribe(&recordingStream{wait: 2 * time.Second})
	fast := &recordingStream{}
	m.Subscribe(fast)

	start := time.Now()
	m.Broadcast(&Notification{Type: "progress"})

	assert.Less(t, time.Since(start), 1500*time.Millisecond)
	assert.Len(t, fast.received(), 1)
}

func TestManager_Forward(t *testing.T) {
	m := NewManager()
	s := &recordingStream{}
	m.Subscribe(s)

	events := make(chan player.Event, 2)
	events <- player.Event{Type: player.EventTrackSelected, Snapshot: player.Snapshot{CurrentTrackIndex: 2}}
	events <- player.Event{Type: player.EventStateChanged, Snapshot: player.Snapshot{CurrentTrackIndex: 2, IsPlaying: true}}
	close(events)

	m.Forward(context.Background(), events)

	got := s.received()
	require.Len(t, got, 2)
	assert.Equal(t, "track_selected", got[0].Type)
	assert.Equal(t, 2, got[0].Snapshot.CurrentTrackIndex)
	assert.Equal(t, "state_changed", got[1].Type)
	assert.True(t, got[1].Snapshot.IsPlaying)
}

func TestManager_ForwardStopsOnCancel(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		m.Forward(ctx, make(chan player.Event))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Forward did not return after cancel")
	}
}
