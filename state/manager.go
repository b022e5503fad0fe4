// Package state owns the in-memory application collections and the
// persistence bridge that mirrors them: every mutation is written to local
// storage synchronously and, while an identity is signed in, pushed to the
// cloud document store asynchronously. Remote snapshots flow back in through a
// per-identity subscription and fully replace local state (last writer wins).
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"izinkuy/auth"
	"izinkuy/cloud"
	"izinkuy/models"
	"izinkuy/storage"
	"izinkuy/utils"
)

// ErrTypeExists is returned when adding a permission type that already has a
// template.
var ErrTypeExists = errors.New("permission type already exists")

// ErrScheduleNotFound is returned when updating or deleting an unknown entry.
var ErrScheduleNotFound = errors.New("schedule entry not found")

// ErrHistoryNotFound is returned when deleting an unknown history entry.
var ErrHistoryNotFound = errors.New("history entry not found")

// Manager is the single owner of the four application collections. All
// mutations pass through it; UI layers observe changes via Subscribe.
type Manager struct {
	local *storage.StateStore
	cloud cloud.Store
	auth  *auth.Service

	mu        sync.RWMutex
	profile   models.Profile
	schedules []models.ScheduleItem
	templates map[string]string
	history   []models.HistoryItem

	identity    *auth.Identity
	status      SyncStatus
	unsubscribe func()
	userAgent   string

	events *broadcaster
}

// NewManager loads local state and wires the identity-change listener that
// starts and stops cloud mirroring.
func NewManager(local *storage.StateStore, cloudStore cloud.Store, authService *auth.Service) (*Manager, error) {
	profile, schedules, templates, history, err := local.LoadAll()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		local:     local,
		cloud:     cloudStore,
		auth:      authService,
		profile:   profile,
		schedules: schedules,
		templates: templates,
		history:   history,
		status:    StatusSynced,
		events:    newBroadcaster(),
	}

	authService.OnChange(m.handleIdentityChange)
	return m, nil
}

// Profile returns the current profile.
func (m *Manager) Profile() models.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile
}

// Schedules returns a copy of the schedule collection.
func (m *Manager) Schedules() []models.ScheduleItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySchedules(m.schedules)
}

// Templates returns a copy of the template mapping, defaults included.
func (m *Manager) Templates() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyTemplates(m.templates)
}

// History returns a copy of the letter history.
func (m *Manager) History() []models.HistoryItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyHistory(m.history)
}

// SyncStatus returns the cloud mirroring indicator.
func (m *Manager) SyncStatus() SyncStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Identity returns the signed-in identity, or nil when offline.
func (m *Manager) Identity() *auth.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	id := *m.identity
	return &id
}

// Subscribe registers a UI event listener; Unsubscribe releases it.
func (m *Manager) Subscribe() (string, <-chan Event) { return m.events.subscribe() }

// Unsubscribe removes a UI event listener.
func (m *Manager) Unsubscribe(id string) { m.events.unsubscribe(id) }

// SetUserAgent records the client identification attached to analytics events.
func (m *Manager) SetUserAgent(ua string) {
	m.mu.Lock()
	m.userAgent = ua
	m.mu.Unlock()
}

// UpdateProfile replaces the profile wholesale.
func (m *Manager) UpdateProfile(profile models.Profile) error {
	m.mu.Lock()
	m.profile = profile
	return m.commitLocked()
}

// SaveSchedule adds the entry, or replaces it when its ID already exists. A
// missing ID is generated.
func (m *Manager) SaveSchedule(item models.ScheduleItem) (models.ScheduleItem, error) {
	m.mu.Lock()
	if item.ID == "" {
		item.ID = uuid.New().String()
		m.schedules = append(m.schedules, item)
		return item, m.commitLocked()
	}
	for i, s := range m.schedules {
		if s.ID == item.ID {
			m.schedules[i] = item
			return item, m.commitLocked()
		}
	}
	m.schedules = append(m.schedules, item)
	return item, m.commitLocked()
}

// DeleteSchedule removes an entry by ID.
func (m *Manager) DeleteSchedule(id string) error {
	m.mu.Lock()
	for i, s := range m.schedules {
		if s.ID == id {
			m.schedules = append(m.schedules[:i], m.schedules[i+1:]...)
			return m.commitLocked()
		}
	}
	m.mu.Unlock()
	return ErrScheduleNotFound
}

// SetTemplate stores a template body under a type name.
func (m *Manager) SetTemplate(name, body string) error {
	m.mu.Lock()
	m.templates[name] = body
	return m.commitLocked()
}

// ResetTemplate restores a built-in type to its default body, or removes a
// custom type entirely.
func (m *Manager) ResetTemplate(name string) error {
	m.mu.Lock()
	if body, ok := models.DefaultTemplates[name]; ok {
		m.templates[name] = body
	} else {
		delete(m.templates, name)
	}
	return m.commitLocked()
}

// AddPermissionType registers a new user-defined type. An empty body seeds
// the generic default template.
func (m *Manager) AddPermissionType(name, body string) error {
	m.mu.Lock()
	if _, exists := m.templates[name]; exists {
		m.mu.Unlock()
		return ErrTypeExists
	}
	if body == "" {
		body = models.GenericTemplate(name)
	}
	m.templates[name] = body
	return m.commitLocked()
}

// AppendHistory stores a generated letter. A consecutive duplicate (same
// rendered text and permission date as the latest entry) is suppressed; the
// returned flag reports whether a new entry was stored.
func (m *Manager) AppendHistory(permType, permissionDate, reason, generatedText string) (bool, error) {
	m.mu.Lock()
	if models.DuplicatesLast(m.history, generatedText, permissionDate) {
		m.mu.Unlock()
		return false, nil
	}
	m.history = append(m.history, models.HistoryItem{
		ID:             uuid.New().String(),
		CreatedAt:      time.Now().UnixMilli(),
		Type:           permType,
		PermissionDate: permissionDate,
		Reason:         reason,
		GeneratedText:  generatedText,
	})
	return true, m.commitLocked()
}

// DeleteHistory removes one entry by ID.
func (m *Manager) DeleteHistory(id string) error {
	m.mu.Lock()
	for i, h := range m.history {
		if h.ID == id {
			m.history = append(m.history[:i], m.history[i+1:]...)
			return m.commitLocked()
		}
	}
	m.mu.Unlock()
	return ErrHistoryNotFound
}

// ClearHistory removes all entries.
func (m *Manager) ClearHistory() error {
	m.mu.Lock()
	m.history = []models.HistoryItem{}
	return m.commitLocked()
}

// ExportDocument assembles the current state as a backup envelope.
func (m *Manager) ExportDocument() models.BackupDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.NewBackupDocument(m.profile, m.schedules, m.templates, m.history, time.Now())
}

// ImportBackup replaces all four collections from a validated backup and runs
// the same local+cloud commit path as any other mutation. Callers confirm
// with the user before invoking this.
func (m *Manager) ImportBackup(doc models.BackupDocument) error {
	doc.Normalize()
	m.mu.Lock()
	m.profile = doc.Profile
	m.schedules = doc.Schedules
	m.templates = models.MergeTemplates(doc.Templates)
	m.history = doc.History
	return m.commitLocked()
}

// ResetAll clears local storage and returns the in-memory collections to
// their empty defaults. The cloud copy is left untouched.
func (m *Manager) ResetAll() error {
	m.mu.Lock()
	m.profile = models.Profile{}
	m.schedules = []models.ScheduleItem{}
	m.templates = models.MergeTemplates(nil)
	m.history = []models.HistoryItem{}
	m.mu.Unlock()

	if err := m.local.ResetAll(); err != nil {
		return err
	}
	m.events.publish(Event{Type: EventStateChanged})
	return nil
}

// OnboardingCompleted reports the first-run flag.
func (m *Manager) OnboardingCompleted() bool { return m.local.OnboardingCompleted() }

// CompleteOnboarding records the first-run flag.
func (m *Manager) CompleteOnboarding() error { return m.local.SetOnboardingCompleted(true) }

// commitLocked is the bridge: it writes all four collections to local storage
// synchronously, then pushes them to the cloud store in the background when an
// identity is signed in. Must be entered holding m.mu; it unlocks. The
// collections are copied before the lock is released because the push
// goroutine serializes the document while later mutations write the live
// map and slices.
func (m *Manager) commitLocked() error {
	profile := m.profile
	schedules := copySchedules(m.schedules)
	templates := copyTemplates(m.templates)
	history := copyHistory(m.history)
	identity := m.identity
	userAgent := m.userAgent

	// Local write comes first and its failure propagates: there is no
	// fallback store.
	err := m.local.SaveAll(profile, schedules, templates, history)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	var doc models.BackupDocument
	if identity != nil {
		m.status = StatusSyncing
		doc = models.NewBackupDocument(profile, schedules, templates, history, time.Now())
	}
	m.mu.Unlock()

	m.events.publish(Event{Type: EventStateChanged})

	if identity != nil {
		m.events.publish(Event{Type: EventSyncStatus, SyncStatus: StatusSyncing})
		go m.push(identity, doc, userAgent)
	}
	return nil
}

// push attempts one cloud upsert. Failure is logged and surfaced through the
// status indicator only; the local write is never rolled back and no retry is
// queued (the next edit pushes again).
func (m *Manager) push(identity *auth.Identity, doc models.BackupDocument, userAgent string) {
	if err := m.cloud.Set(identity.UserID, doc); err != nil {
		utils.Log.Error("Cloud sync failed for %s: %v", identity.Email, err)
		m.setStatus(StatusError)
		return
	}

	if err := m.cloud.AppendEvent(models.AnalyticsEvent{
		UserID:    identity.UserID,
		Action:    "data_sync",
		UserAgent: userAgent,
	}); err != nil {
		utils.Log.Warn("Failed to record sync event: %v", err)
	}

	m.setStatus(StatusSynced)
}

// handleIdentityChange swaps the down-sync subscription when the signed-in
// identity changes. The old subscription is released exactly once so no
// listener acts on a stale identity.
func (m *Manager) handleIdentityChange(identity *auth.Identity) {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.identity = identity
	m.mu.Unlock()

	// Released outside the lock: the store may be mid-delivery into a
	// listener that needs it.
	if unsubscribe != nil {
		unsubscribe()
	}

	if identity == nil {
		m.setStatus(StatusSynced)
		return
	}

	// Signing in implies onboarding is done.
	if err := m.local.SetOnboardingCompleted(true); err != nil {
		utils.Log.Warn("Failed to set onboarding flag: %v", err)
	}

	m.setStatus(StatusSyncing)
	unsubscribe = m.cloud.Subscribe(identity.UserID, func(doc *models.BackupDocument) {
		if doc != nil {
			m.applySnapshot(*doc)
		}
		m.setStatus(StatusSynced)
	})

	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()
}

// applySnapshot is the down-sync path: a remote snapshot fully replaces the
// in-memory collections and their local mirrors. No field-level merge is
// attempted; the last write observed wins.
func (m *Manager) applySnapshot(doc models.BackupDocument) {
	doc.Normalize()

	// The snapshot's slices may be shared with other listeners on the same
	// document, so they are copied before becoming the live collections.
	m.mu.Lock()
	m.profile = doc.Profile
	m.schedules = copySchedules(doc.Schedules)
	m.templates = models.MergeTemplates(doc.Templates)
	m.history = copyHistory(doc.History)
	err := m.local.SaveAll(m.profile, m.schedules, m.templates, m.history)
	m.mu.Unlock()

	if err != nil {
		utils.Log.Error("Failed to mirror cloud snapshot locally: %v", err)
	}

	m.events.publish(Event{Type: EventStateChanged})
}

func copySchedules(in []models.ScheduleItem) []models.ScheduleItem {
	out := make([]models.ScheduleItem, len(in))
	copy(out, in)
	return out
}

func copyTemplates(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for name, body := range in {
		out[name] = body
	}
	return out
}

func copyHistory(in []models.HistoryItem) []models.HistoryItem {
	out := make([]models.HistoryItem, len(in))
	copy(out, in)
	return out
}

func (m *Manager) setStatus(status SyncStatus) {
	m.mu.Lock()
	changed := m.status != status
	m.status = status
	m.mu.Unlock()
	if changed {
		m.events.publish(Event{Type: EventSyncStatus, SyncStatus: status})
	}
}
