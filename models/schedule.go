package models

import "sort"

// DayNames are the Indonesian weekday names indexed by day-of-week,
// 0 = Minggu (Sunday), matching time.Weekday numbering.
var DayNames = [7]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// ScheduleItem is one recurring weekly teaching slot.
type ScheduleItem struct {
	ID        string `json:"id"`
	DayIndex  int    `json:"dayIndex"` // 0 = Sunday .. 6 = Saturday
	Subject   string `json:"subject"`
	ClassName string `json:"className"` // e.g. XI A
	Level     string `json:"level"`     // e.g. MA
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // HH:MM
	Note      string `json:"note,omitempty"`
}

// FilterByDay returns the schedule entries for the given day index in
// collection order. Grouping is computed at read time, never stored.
func FilterByDay(schedules []ScheduleItem, dayIndex int) []ScheduleItem {
	var out []ScheduleItem
	for _, s := range schedules {
		if s.DayIndex == dayIndex {
			out = append(out, s)
		}
	}
	return out
}

// SortByStartTime orders entries by start time for display. HH:MM strings
// compare correctly as plain strings.
func SortByStartTime(schedules []ScheduleItem) {
	sort.SliceStable(schedules, func(i, j int) bool {
		return schedules[i].StartTime < schedules[j].StartTime
	})
}
