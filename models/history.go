package models

// HistoryItem is one generated letter kept in the append-only history.
type HistoryItem struct {
	ID             string `json:"id"`
	CreatedAt      int64  `json:"createdAt"`      // epoch milliseconds
	Type           string `json:"type"`           // permission type name
	PermissionDate string `json:"permissionDate"` // ISO-8601
	Reason         string `json:"reason"`
	GeneratedText  string `json:"generatedText"`
}

// DuplicatesLast reports whether appending the given text and date would
// repeat the most recent history entry. Consecutive duplicates are suppressed
// at insert time.
func DuplicatesLast(history []HistoryItem, generatedText, permissionDate string) bool {
	if len(history) == 0 {
		return false
	}
	last := history[len(history)-1]
	return last.GeneratedText == generatedText && last.PermissionDate == permissionDate
}
