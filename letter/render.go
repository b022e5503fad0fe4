// Package letter renders permission letters from templates, profile data and
// the weekly teaching schedule.
package letter

import (
	"fmt"
	"strings"
	"time"

	"izinkuy/models"
)

// Markers substituted when a source value is empty.
const (
	MissingName         = "[Nama belum diisi]"
	MissingUnit         = "[Unit belum diisi]"
	MissingReason       = "[Alasan belum diisi]"
	MissingPosition     = "[Jabatan belum diisi]"
	MissingHalaqahTime  = "[Waktu Halaqah belum diisi]"
	MissingHalaqahPlace = "[Tempat Halaqah belum diisi]"
	MissingBadal        = "[Solusi Badal belum diisi]"

	// NoSchedule replaces the schedule block when the target day has no entries.
	NoSchedule = "Tidak ada jadwal"
)

var monthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Input collects everything a single render needs. Now drives the greeting
// word; callers leave it zero to use the wall clock.
type Input struct {
	Template  string
	Profile   models.Profile
	Schedules []models.ScheduleItem
	Date      time.Time // target permission date
	Reason    string

	// Halaqah-specific fields, used only by that permission type.
	HalaqahTime   string
	HalaqahPlace  string
	BadalSolution string

	Now time.Time
}

// placeholderKeys fixes the substitution order so output is deterministic.
var placeholderKeys = []string{
	"nama", "unit", "date", "dayName", "reason", "schedule",
	"jabatanStruktural", "jabatanFungsional", "timeGreeting",
	"waktuHalaqah", "tempatHalaqah", "solusiBadal",
}

var resolvers = map[string]func(Input) string{
	"nama":              func(in Input) string { return orMarker(in.Profile.Name, MissingName) },
	"unit":              func(in Input) string { return orMarker(in.Profile.Unit, MissingUnit) },
	"date":              func(in Input) string { return FormatDate(in.Date) },
	"dayName":           func(in Input) string { return DayName(in.Date) },
	"reason":            func(in Input) string { return orMarker(in.Reason, MissingReason) },
	"schedule":          func(in Input) string { return ScheduleBlock(in.Schedules, int(in.Date.Weekday())) },
	"jabatanStruktural": func(in Input) string { return orMarker(in.Profile.StructuralPosition, MissingPosition) },
	"jabatanFungsional": func(in Input) string { return orMarker(in.Profile.FunctionalPosition, MissingPosition) },
	"timeGreeting":      func(in Input) string { return Greeting(in.now().Hour()) },
	"waktuHalaqah":      func(in Input) string { return orMarker(in.HalaqahTime, MissingHalaqahTime) },
	"tempatHalaqah":     func(in Input) string { return orMarker(in.HalaqahPlace, MissingHalaqahPlace) },
	"solusiBadal":       func(in Input) string { return orMarker(in.BadalSolution, MissingBadal) },
}

// Render substitutes every recognized {{key}} token in the template body.
// Unrecognized tokens are left verbatim. The function is pure: no state is
// read beyond the input and no state is written.
func Render(in Input) string {
	text := in.Template
	for _, key := range placeholderKeys {
		token := "{{" + key + "}}"
		if !strings.Contains(text, token) {
			continue
		}
		text = strings.ReplaceAll(text, token, resolvers[key](in))
	}
	return text
}

// ScheduleBlock joins the entries for the given day, one per line, in
// collection order. An empty day yields the NoSchedule marker.
func ScheduleBlock(schedules []models.ScheduleItem, dayIndex int) string {
	day := models.FilterByDay(schedules, dayIndex)
	if len(day) == 0 {
		return NoSchedule
	}
	lines := make([]string, 0, len(day))
	for _, s := range day {
		line := fmt.Sprintf("%s (%s) %s-%s", s.Subject, s.ClassName, s.StartTime, s.EndTime)
		if s.Note != "" {
			line += " - " + s.Note
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// FormatDate renders a date the Indonesian way, e.g. "2 Januari 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// DayName returns the Indonesian weekday name for the date.
func DayName(t time.Time) string {
	return models.DayNames[t.Weekday()]
}

// Greeting picks the greeting word for the given wall-clock hour.
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "pagi"
	case hour < 15:
		return "siang"
	case hour < 18:
		return "sore"
	default:
		return "malam"
	}
}

func (in Input) now() time.Time {
	if in.Now.IsZero() {
		return time.Now()
	}
	return in.Now
}

func orMarker(value, marker string) string {
	if value == "" {
		return marker
	}
	return value
}
