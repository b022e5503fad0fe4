package models

import (
	"strings"
	"testing"
)

func TestDuplicatesLast(t *testing.T) {
	history := []HistoryItem{
		{ID: "h1", PermissionDate: "2026-01-05", GeneratedText: "surat lama"},
		{ID: "h2", PermissionDate: "2026-01-06", GeneratedText: "surat baru"},
	}

	tests := []struct {
		name string
		text string
		date string
		want bool
	}{
		{"matches last entry", "surat baru", "2026-01-06", true},
		{"matches an older entry only", "surat lama", "2026-01-05", false},
		{"same text different date", "surat baru", "2026-01-07", false},
		{"same date different text", "surat lain", "2026-01-06", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DuplicatesLast(history, tt.text, tt.date); got != tt.want {
				t.Errorf("DuplicatesLast() = %v, want %v", got, tt.want)
			}
		})
	}

	if DuplicatesLast(nil, "apa saja", "2026-01-05") {
		t.Error("DuplicatesLast() = true on empty history")
	}
}

func TestSortByStartTimeIsStable(t *testing.T) {
	schedules := []ScheduleItem{
		{ID: "a", StartTime: "10:00"},
		{ID: "b", StartTime: "07:30"},
		{ID: "c", StartTime: "07:30"},
		{ID: "d", StartTime: "13:15"},
	}

	SortByStartTime(schedules)

	gotOrder := []string{schedules[0].ID, schedules[1].ID, schedules[2].ID, schedules[3].ID}
	wantOrder := []string{"b", "c", "a", "d"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", gotOrder, wantOrder)
		}
	}
}

func TestMergeTemplatesKeepsDefaults(t *testing.T) {
	merged := MergeTemplates(map[string]string{
		TypeKBM:      "override",
		"Dinas Luar": "custom",
	})

	if merged[TypeKBM] != "override" {
		t.Errorf("KBM = %q, want the override", merged[TypeKBM])
	}
	if merged["Dinas Luar"] != "custom" {
		t.Error("custom type lost in merge")
	}
	for _, name := range []string{TypeHalaqah, TypeKajian, TypeRapat} {
		if merged[name] != DefaultTemplates[name] {
			t.Errorf("default %s template lost in merge", name)
		}
	}

	// Nil overrides still yield the defaults.
	if got := MergeTemplates(nil); len(got) != len(DefaultTemplates) {
		t.Errorf("MergeTemplates(nil) has %d entries, want %d", len(got), len(DefaultTemplates))
	}
}

func TestGenericTemplateUppercasesName(t *testing.T) {
	body := GenericTemplate("dinas luar")
	if !strings.Contains(body, "IZIN DINAS LUAR") {
		t.Errorf("GenericTemplate() missing uppercased heading:\n%s", body)
	}
	for _, token := range []string{"{{nama}}", "{{unit}}", "{{reason}}", "{{date}}"} {
		if !strings.Contains(body, token) {
			t.Errorf("GenericTemplate() missing %s placeholder", token)
		}
	}
}

func TestProfileIsComplete(t *testing.T) {
	if (Profile{}).IsComplete() {
		t.Error("empty profile reported complete")
	}
	if (Profile{Name: "Ahmad"}).IsComplete() {
		t.Error("profile without unit reported complete")
	}
	if !(Profile{Name: "Ahmad", Unit: "MA"}).IsComplete() {
		t.Error("profile with name and unit reported incomplete")
	}
}
