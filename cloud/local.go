package cloud

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"izinkuy/models"
	"izinkuy/storage"
	"izinkuy/utils"
)

// LocalStore is a document store kept in the application database. It gives a
// single-host deployment the same contract a hosted document store would:
// merge-on-write upserts, per-identity change subscriptions, and an
// append-only analytics collection.
type LocalStore struct {
	db *bbolt.DB

	// mu orders writes and snapshot delivery together: Set enqueues under it
	// right after the transaction commits, so every subscriber sees snapshots
	// in commit order.
	mu          sync.Mutex
	subscribers map[string]map[string]*subscription // userID -> subscriberID -> queue
}

// subscription is one registered listener. Snapshots are queued in commit
// order and drained by a dedicated goroutine.
type subscription struct {
	queue chan *models.BackupDocument
}

// NewLocalStore creates a store over an initialized database.
func NewLocalStore(db *bbolt.DB) *LocalStore {
	return &LocalStore{
		db:          db,
		subscribers: make(map[string]map[string]*subscription),
	}
}

// Get returns the stored document for the identity, or nil when absent.
func (s *LocalStore) Get(userID string) (*models.BackupDocument, error) {
	var doc *models.BackupDocument
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(storage.BucketDocuments)).Get([]byte(userID))
		if data == nil {
			return nil
		}
		var stored Document
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("failed to unmarshal document: %v", err)
		}
		stored.Data.Normalize()
		doc = &stored.Data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Set upserts the identity's document, merging fields: collections absent
// from the incoming document keep their stored values. Subscribers receive
// the merged snapshot.
func (s *LocalStore) Set(userID string, doc models.BackupDocument) error {
	// The lock is held across the write and the enqueue so that concurrent
	// writers cannot deliver their snapshots out of commit order.
	s.mu.Lock()
	defer s.mu.Unlock()

	var merged models.BackupDocument
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(storage.BucketDocuments))

		merged = doc
		if data := b.Get([]byte(userID)); data != nil {
			var existing Document
			if err := json.Unmarshal(data, &existing); err == nil {
				merged = mergeDocuments(existing.Data, doc)
			}
		}
		merged.Normalize()

		stored := Document{
			UserID:      userID,
			Data:        merged,
			LastUpdated: time.Now(),
		}
		data, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal document: %v", err)
		}
		return b.Put([]byte(userID), data)
	})
	if err != nil {
		return err
	}

	for _, sub := range s.subscribers[userID] {
		sub.queue <- &merged
	}
	return nil
}

// Subscribe registers a snapshot listener for the identity and delivers the
// current document (or nil) immediately, the way a hosted store's snapshot
// listener behaves. The returned function removes the listener.
func (s *LocalStore) Subscribe(userID string, fn SnapshotFunc) (unsubscribe func()) {
	subscriberID := uuid.New().String()
	sub := &subscription{queue: make(chan *models.BackupDocument, 16)}

	go func() {
		for doc := range sub.queue {
			fn(doc)
		}
	}()

	// Registration and the initial read happen under the same lock Set holds
	// across its write and enqueue, so the initial snapshot always precedes
	// any later write's snapshot.
	s.mu.Lock()
	if s.subscribers[userID] == nil {
		s.subscribers[userID] = make(map[string]*subscription)
	}
	s.subscribers[userID][subscriberID] = sub

	doc, err := s.Get(userID)
	if err != nil {
		utils.Log.Error("Initial snapshot read failed for %s: %v", userID, err)
		doc = nil
	}
	sub.queue <- doc
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if subs, ok := s.subscribers[userID]; ok {
			if registered, live := subs[subscriberID]; live {
				delete(subs, subscriberID)
				close(registered.queue)
			}
			if len(subs) == 0 {
				delete(s.subscribers, userID)
			}
		}
	}
}

// ListDocuments returns every stored document for the admin view.
func (s *LocalStore) ListDocuments() ([]Document, error) {
	var docs []Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(storage.BucketDocuments)).ForEach(func(_, v []byte) error {
			var doc Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return nil // skip unreadable entries
			}
			doc.Data.Normalize()
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// AppendEvent records one analytics event.
func (s *LocalStore) AppendEvent(event models.AnalyticsEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %v", err)
		}
		return tx.Bucket([]byte(storage.BucketAnalytics)).Put([]byte(event.ID), data)
	})
}

// ListEvents returns all recorded analytics events for the admin view.
func (s *LocalStore) ListEvents() ([]models.AnalyticsEvent, error) {
	var events []models.AnalyticsEvent
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(storage.BucketAnalytics)).ForEach(func(_, v []byte) error {
			var event models.AnalyticsEvent
			if err := json.Unmarshal(v, &event); err != nil {
				return nil
			}
			events = append(events, event)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// mergeDocuments overlays the incoming document on the stored one. A
// collection the incoming document omits keeps its stored value.
func mergeDocuments(existing, incoming models.BackupDocument) models.BackupDocument {
	merged := incoming
	if merged.Schedules == nil {
		merged.Schedules = existing.Schedules
	}
	if merged.Templates == nil {
		merged.Templates = existing.Templates
	}
	if merged.History == nil {
		merged.History = existing.History
	}
	if merged.Timestamp == 0 {
		merged.Timestamp = existing.Timestamp
	}
	return merged
}
