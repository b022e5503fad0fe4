package storage

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"izinkuy/models"
)

// Stable keys for the four local collections, plus the onboarding flag.
const (
	KeyProfile    = "userProfile"
	KeySchedules  = "schedules"
	KeyTemplates  = "templates"
	KeyHistory    = "history"
	KeyOnboarding = "onboarding_completed"
)

// StateStore persists the four application collections as JSON-encoded values
// under stable keys. It is the local, always-synchronous side of the
// persistence bridge; write failures here are not recoverable.
type StateStore struct {
	db *bbolt.DB
}

// NewStateStore creates a state store over an initialized database.
func NewStateStore(db *bbolt.DB) *StateStore {
	return &StateStore{db: db}
}

// SaveAll writes all four collections in a single transaction.
func (s *StateStore) SaveAll(profile models.Profile, schedules []models.ScheduleItem, templates map[string]string, history []models.HistoryItem) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketState))
		entries := []struct {
			key   string
			value interface{}
		}{
			{KeyProfile, profile},
			{KeySchedules, schedules},
			{KeyTemplates, templates},
			{KeyHistory, history},
		}
		for _, e := range entries {
			data, err := json.Marshal(e.value)
			if err != nil {
				return fmt.Errorf("failed to marshal %s: %v", e.key, err)
			}
			if err := b.Put([]byte(e.key), data); err != nil {
				return fmt.Errorf("failed to write %s: %v", e.key, err)
			}
		}
		return nil
	})
}

// LoadAll reads the four collections back. Missing keys yield empty defaults;
// templates are always merged over the built-in defaults.
func (s *StateStore) LoadAll() (models.Profile, []models.ScheduleItem, map[string]string, []models.HistoryItem, error) {
	var (
		profile   models.Profile
		schedules = []models.ScheduleItem{}
		templates = map[string]string{}
		history   = []models.HistoryItem{}
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketState))
		entries := []struct {
			key   string
			value interface{}
		}{
			{KeyProfile, &profile},
			{KeySchedules, &schedules},
			{KeyTemplates, &templates},
			{KeyHistory, &history},
		}
		for _, e := range entries {
			data := b.Get([]byte(e.key))
			if data == nil {
				continue
			}
			if err := json.Unmarshal(data, e.value); err != nil {
				return fmt.Errorf("failed to unmarshal %s: %v", e.key, err)
			}
		}
		return nil
	})
	if err != nil {
		return profile, nil, nil, nil, err
	}

	return profile, schedules, models.MergeTemplates(templates), history, nil
}

// SetOnboardingCompleted records that the first-run onboarding was finished.
func (s *StateStore) SetOnboardingCompleted(done bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketState))
		if !done {
			return b.Delete([]byte(KeyOnboarding))
		}
		return b.Put([]byte(KeyOnboarding), []byte("true"))
	})
}

// OnboardingCompleted reports whether onboarding was finished on this install.
func (s *StateStore) OnboardingCompleted() bool {
	done := false
	s.db.View(func(tx *bbolt.Tx) error {
		done = tx.Bucket([]byte(BucketState)).Get([]byte(KeyOnboarding)) != nil
		return nil
	})
	return done
}

// ResetAll removes every stored key, returning the install to a blank state.
func (s *StateStore) ResetAll() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketState))
		for _, key := range []string{KeyProfile, KeySchedules, KeyTemplates, KeyHistory, KeyOnboarding} {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}
