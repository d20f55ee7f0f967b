package events

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TypeAchievementUnlocked = "achievement.unlocked"
	TypeGoalCompleted       = "goal.completed"
)

// Event is a progress state transition fanned out to subscribers. The core
// never depends on whether anyone consumes these.
type Event struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"user_id"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers one event to an external channel (notification fanout,
// email campaigns, websockets). Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Dispatcher runs a small worker pool that pushes events to every
// registered publisher.
type Dispatcher struct {
	mu         sync.RWMutex
	publishers []Publisher
	queue      chan Event
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

func NewDispatcher(workers int) *Dispatcher {
	if workers <= 0 {
		workers = 3
	}
	d := &Dispatcher{
		queue:    make(chan Event, 100),
		stopChan: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Register adds a publisher. Safe to call while the dispatcher is running.
func (d *Dispatcher) Register(p Publisher) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.publishers = append(d.publishers, p)
}

// Emit queues an event without blocking the caller. A full queue drops the
// event; subscribers are a convenience layer, the durable state is in
// postgres.
func (d *Dispatcher) Emit(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Printf("events: queue full, dropping %s for user %s", ev.Type, ev.UserID)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case ev := <-d.queue:
			d.deliver(ev)
		case <-d.stopChan:
			return
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	d.mu.RLock()
	publishers := d.publishers
	d.mu.RUnlock()

	for _, p := range publishers {
		if err := p.Publish(ctx, ev); err != nil {
			log.Printf("events: publish %s for user %s failed: %v", ev.Type, ev.UserID, err)
		}
	}
}

// Shutdown stops the workers. Queued but undelivered events are dropped.
func (d *Dispatcher) Shutdown() {
	close(d.stopChan)
	d.wg.Wait()
}

// LogPublisher writes events to the standard logger. Mostly useful in
// development and as the default subscriber.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev Event) error {
	log.Printf("events: %s user=%s payload=%+v", ev.Type, ev.UserID, ev.Payload)
	return nil
}
