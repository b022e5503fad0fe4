// Package backup encodes the whole application state as a versioned JSON
// document. The same envelope serves file export/import and cloud mirroring.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"izinkuy/models"
)

// ErrInvalidFormat reports a structurally invalid backup file. Import performs
// no state mutation when returning it.
var ErrInvalidFormat = errors.New("invalid backup format")

// Export serializes the document as indented, human-readable UTF-8 JSON.
func Export(doc models.BackupDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %v", err)
	}
	return data, nil
}

// Import parses and validates a backup file. The profile field must be
// present and schedules must be a JSON array; any other shape fails with
// ErrInvalidFormat. Missing templates or history default to empty.
func Import(data []byte) (*models.BackupDocument, error) {
	var probe struct {
		Profile   json.RawMessage `json:"userProfile"`
		Schedules json.RawMessage `json:"schedules"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(probe.Profile) == 0 || string(probe.Profile) == "null" {
		return nil, fmt.Errorf("%w: missing userProfile", ErrInvalidFormat)
	}
	if !isJSONArray(probe.Schedules) {
		return nil, fmt.Errorf("%w: schedules must be an array", ErrInvalidFormat)
	}

	var doc models.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Filename builds the download name, e.g. "izinkuy_backup_2026-08-30.json".
func Filename(now time.Time) string {
	return fmt.Sprintf("izinkuy_backup_%s.json", now.Format("2006-01-02"))
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
