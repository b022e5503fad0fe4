package letter

import (
	"strings"
	"testing"
	"time"

	"izinkuy/models"
)

// 2026-01-05 is a Monday (Senin).
var monday = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.Local)

func TestRenderSubstitutesProfileFields(t *testing.T) {
	got := Render(Input{
		Template: "Hi {{nama}} from {{unit}}",
		Profile:  models.Profile{Name: "Ahmad", Unit: "MA"},
		Date:     monday,
	})
	want := "Hi Ahmad from MA"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderMissingMarkers(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"empty name", "{{nama}}", MissingName},
		{"empty unit", "{{unit}}", MissingUnit},
		{"empty reason", "{{reason}}", MissingReason},
		{"empty structural position", "{{jabatanStruktural}}", MissingPosition},
		{"empty halaqah time", "{{waktuHalaqah}}", MissingHalaqahTime},
		{"empty halaqah place", "{{tempatHalaqah}}", MissingHalaqahPlace},
		{"empty badal", "{{solusiBadal}}", MissingBadal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(Input{Template: tt.template, Date: monday})
			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestRenderDateAndDayName(t *testing.T) {
	got := Render(Input{
		Template: "{{dayName}}, {{date}}",
		Date:     monday,
	})
	want := "Senin, 5 Januari 2026"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderScheduleFiltersByDay(t *testing.T) {
	schedules := []models.ScheduleItem{
		{ID: "1", DayIndex: 1, Subject: "Matematika", ClassName: "7A", StartTime: "07:30", EndTime: "09:00"},
		{ID: "2", DayIndex: 2, Subject: "Fisika", ClassName: "8B", StartTime: "09:00", EndTime: "10:30"},
		{ID: "3", DayIndex: 1, Subject: "Tahfidz", ClassName: "7B", StartTime: "10:00", EndTime: "11:30", Note: "lab"},
	}

	got := Render(Input{
		Template:  "{{schedule}}",
		Schedules: schedules,
		Date:      monday,
	})

	want := "Matematika (7A) 07:30-09:00\nTahfidz (7B) 10:00-11:30 - lab"
	if got != want {
		t.Errorf("schedule block = %q, want %q", got, want)
	}
	if strings.Contains(got, "Fisika") {
		t.Error("schedule block contains an entry from another day")
	}
}

func TestRenderEmptyDayShowsNoScheduleMarker(t *testing.T) {
	got := Render(Input{
		Template:  "{{schedule}}",
		Schedules: []models.ScheduleItem{{ID: "1", DayIndex: 3, Subject: "Kimia"}},
		Date:      monday,
	})
	if got != NoSchedule {
		t.Errorf("Render() = %q, want %q", got, NoSchedule)
	}
}

func TestRenderLeavesUnrecognizedTokens(t *testing.T) {
	got := Render(Input{
		Template: "{{nama}} {{tidakDikenal}}",
		Profile:  models.Profile{Name: "Siti"},
		Date:     monday,
	})
	want := "Siti {{tidakDikenal}}"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderEmptyTemplate(t *testing.T) {
	if got := Render(Input{Date: monday}); got != "" {
		t.Errorf("Render() = %q, want empty string", got)
	}
}

func TestRenderGreetingUsesInjectedClock(t *testing.T) {
	got := Render(Input{
		Template: "Selamat {{timeGreeting}}",
		Date:     monday,
		Now:      time.Date(2026, time.January, 5, 8, 0, 0, 0, time.Local),
	})
	if got != "Selamat pagi" {
		t.Errorf("Render() = %q, want %q", got, "Selamat pagi")
	}
}

func TestGreetingBands(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "pagi"},
		{11, "pagi"},
		{12, "siang"},
		{14, "siang"},
		{15, "sore"},
		{17, "sore"},
		{18, "malam"},
		{23, "malam"},
	}

	for _, tt := range tests {
		if got := Greeting(tt.hour); got != tt.want {
			t.Errorf("Greeting(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2026, time.August, 17, 0, 0, 0, 0, time.Local))
	if got != "17 Agustus 2026" {
		t.Errorf("FormatDate() = %q, want %q", got, "17 Agustus 2026")
	}
}

func TestRenderDefaultTemplateKBM(t *testing.T) {
	got := Render(Input{
		Template: models.DefaultTemplates[models.TypeKBM],
		Profile:  models.Profile{Name: "Ahmad", Unit: "MA Ibnu Abbas", StructuralPosition: "Wali Kelas"},
		Date:     monday,
		Reason:   "Keperluan keluarga",
	})

	for _, want := range []string{"Ahmad", "MA Ibnu Abbas", "Wali Kelas", "Senin, 5 Januari 2026", "Keperluan keluarga", NoSchedule} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered KBM letter missing %q", want)
		}
	}
	if strings.Contains(got, "{{") {
		t.Errorf("rendered KBM letter still contains placeholder tokens:\n%s", got)
	}
}
