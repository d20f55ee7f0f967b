package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (c *capturePublisher) Publish(_ context.Context, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *capturePublisher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestDispatcherDeliversToPublishers(t *testing.T) {
	d := NewDispatcher(2)
	defer d.Shutdown()

	capture := &capturePublisher{}
	d.Register(capture)

	userID := uuid.New()
	d.Emit(Event{Type: TypeAchievementUnlocked, UserID: userID, OccurredAt: time.Now()})
	d.Emit(Event{Type: TypeGoalCompleted, UserID: userID, OccurredAt: time.Now()})

	require.Eventually(t, func() bool {
		return capture.count() == 2
	}, 2*time.Second, 10*time.Millisecond)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	for _, ev := range capture.events {
		assert.Equal(t, userID, ev.UserID)
	}
}

func TestDispatcherWithoutPublishers(t *testing.T) {
	d := NewDispatcher(1)
	defer d.Shutdown()

	// nothing registered, emit must not block or panic
	d.Emit(Event{Type: TypeGoalCompleted, UserID: uuid.New(), OccurredAt: time.Now()})
}
