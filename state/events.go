package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SyncStatus is the tri-state cloud mirroring indicator shown by the UI.
type SyncStatus string

const (
	StatusSynced  SyncStatus = "synced"
	StatusSyncing SyncStatus = "syncing"
	StatusError   SyncStatus = "error"
)

// Event types delivered to UI subscribers.
const (
	EventSyncStatus   = "sync_status"
	EventStateChanged = "state_changed"
)

// Event is one change notification for the UI.
type Event struct {
	Type       string     `json:"type"`
	SyncStatus SyncStatus `json:"syncStatus,omitempty"`
	Time       time.Time  `json:"time"`
}

// broadcaster fans events out to UI subscribers over buffered channels. A slow
// subscriber drops events rather than blocking a commit.
type broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subscribers: make(map[string]chan Event)}
}

func (b *broadcaster) subscribe() (string, <-chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

func (b *broadcaster) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

func (b *broadcaster) publish(event Event) {
	event.Time = time.Now()
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
