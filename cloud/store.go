// Package cloud defines the document-store collaborator that mirrors the
// application state for an authenticated identity, and an embedded
// implementation backed by the local database.
package cloud

import (
	"time"

	"izinkuy/models"
)

// Document is one remotely stored backup keyed by user identity. LastUpdated
// is assigned by the store on every write.
type Document struct {
	UserID      string                `json:"userId"`
	Data        models.BackupDocument `json:"data"`
	LastUpdated time.Time             `json:"lastUpdated"`
}

// SnapshotFunc receives each change to a subscribed document, in write order.
// A nil document means the identity has no stored data.
type SnapshotFunc func(*models.BackupDocument)

// Store is the document-store capability. One document per identity; writes
// merge rather than overwrite; subscriptions deliver full snapshots on every
// change. ListDocuments and the analytics methods serve the admin view only.
type Store interface {
	Get(userID string) (*models.BackupDocument, error)
	Set(userID string, doc models.BackupDocument) error
	Subscribe(userID string, fn SnapshotFunc) (unsubscribe func())
	ListDocuments() ([]Document, error)
	AppendEvent(event models.AnalyticsEvent) error
	ListEvents() ([]models.AnalyticsEvent, error)
}
