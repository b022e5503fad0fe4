package storage

import (
	"time"

	"go.etcd.io/bbolt"
)

// SessionStorage adapts the database to fiber's session storage interface so
// sessions survive restarts.
type SessionStorage struct {
	db *bbolt.DB
}

// NewSessionStorage creates session storage over an initialized database.
func NewSessionStorage(db *bbolt.DB) *SessionStorage {
	return &SessionStorage{db: db}
}

// Get retrieves a session value by key. Missing keys return nil, nil.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(BucketSessions)).Get([]byte(key))
		if data != nil {
			value = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a session value. Expiration is handled by fiber's session
// middleware; values are simply overwritten here.
func (s *SessionStorage) Set(key string, value []byte, _ time.Duration) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BucketSessions)).Put([]byte(key), value)
	})
}

// Delete removes a session value.
func (s *SessionStorage) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BucketSessions)).Delete([]byte(key))
	})
}

// Reset removes all session values.
func (s *SessionStorage) Reset() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(BucketSessions)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(BucketSessions))
		return err
	})
}

// Close is a no-op; the shared database is closed by the application.
func (s *SessionStorage) Close() error { return nil }
