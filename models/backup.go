package models

import "time"

// BackupVersion is the current BackupDocument envelope version.
const BackupVersion = 1

// BackupDocument is the versioned envelope holding all four persisted
// collections. It is the unit of file export/import and of cloud
// synchronization; one format serves both.
type BackupDocument struct {
	Version   int               `json:"version"`
	Timestamp int64             `json:"timestamp"` // epoch milliseconds
	Profile   Profile           `json:"userProfile"`
	Schedules []ScheduleItem    `json:"schedules"`
	Templates map[string]string `json:"templates"`
	History   []HistoryItem     `json:"history"`
}

// NewBackupDocument assembles a fresh envelope from the live collections.
func NewBackupDocument(profile Profile, schedules []ScheduleItem, templates map[string]string, history []HistoryItem, now time.Time) BackupDocument {
	return BackupDocument{
		Version:   BackupVersion,
		Timestamp: now.UnixMilli(),
		Profile:   profile,
		Schedules: schedules,
		Templates: templates,
		History:   history,
	}
}

// Normalize substitutes empty defaults for fields a forward-compatible reader
// may find missing.
func (d *BackupDocument) Normalize() {
	if d.Version == 0 {
		d.Version = BackupVersion
	}
	if d.Schedules == nil {
		d.Schedules = []ScheduleItem{}
	}
	if d.Templates == nil {
		d.Templates = map[string]string{}
	}
	if d.History == nil {
		d.History = []HistoryItem{}
	}
}
