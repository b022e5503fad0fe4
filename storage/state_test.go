package storage

import (
	"testing"

	"go.etcd.io/bbolt"

	"izinkuy/models"
)

func openTestDB(t *testing.T) *bbolt.DB {
	t.Helper()
	db, err := InitDB(t.TempDir())
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStateStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewStateStore(openTestDB(t))

	profile := models.Profile{Name: "Ahmad", Unit: "MA", FunctionalPosition: "Guru"}
	schedules := []models.ScheduleItem{
		{ID: "s1", DayIndex: 1, Subject: "Matematika", StartTime: "07:30", EndTime: "09:00"},
	}
	templates := map[string]string{"KBM": "custom body"}
	history := []models.HistoryItem{
		{ID: "h1", CreatedAt: 1700000000000, Type: "KBM", PermissionDate: "2026-01-05", Reason: "sakit", GeneratedText: "..."},
	}

	if err := store.SaveAll(profile, schedules, templates, history); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	gotProfile, gotSchedules, gotTemplates, gotHistory, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	if gotProfile != profile {
		t.Errorf("profile = %+v, want %+v", gotProfile, profile)
	}
	if len(gotSchedules) != 1 || gotSchedules[0] != schedules[0] {
		t.Errorf("schedules = %+v, want %+v", gotSchedules, schedules)
	}
	if len(gotHistory) != 1 || gotHistory[0] != history[0] {
		t.Errorf("history = %+v, want %+v", gotHistory, history)
	}

	// Overrides layer on top of built-in defaults.
	if gotTemplates["KBM"] != "custom body" {
		t.Errorf("KBM template = %q, want override", gotTemplates["KBM"])
	}
	if gotTemplates[models.TypeRapat] != models.DefaultTemplates[models.TypeRapat] {
		t.Error("default Rapat template missing after load")
	}
}

func TestStateStoreLoadAllEmptyDatabase(t *testing.T) {
	store := NewStateStore(openTestDB(t))

	profile, schedules, templates, history, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if profile.Name != "" {
		t.Errorf("profile = %+v, want zero value", profile)
	}
	if len(schedules) != 0 || len(history) != 0 {
		t.Error("expected empty collections on a fresh database")
	}
	if len(templates) != len(models.DefaultTemplates) {
		t.Errorf("templates = %d entries, want the %d defaults", len(templates), len(models.DefaultTemplates))
	}
}

func TestStateStoreOnboardingFlag(t *testing.T) {
	store := NewStateStore(openTestDB(t))

	if store.OnboardingCompleted() {
		t.Error("onboarding flag set on a fresh database")
	}
	if err := store.SetOnboardingCompleted(true); err != nil {
		t.Fatalf("SetOnboardingCompleted() error = %v", err)
	}
	if !store.OnboardingCompleted() {
		t.Error("onboarding flag not persisted")
	}
}

func TestStateStoreResetAll(t *testing.T) {
	store := NewStateStore(openTestDB(t))

	if err := store.SaveAll(models.Profile{Name: "Ahmad"}, nil, map[string]string{"KBM": "x"}, nil); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if err := store.SetOnboardingCompleted(true); err != nil {
		t.Fatalf("SetOnboardingCompleted() error = %v", err)
	}

	if err := store.ResetAll(); err != nil {
		t.Fatalf("ResetAll() error = %v", err)
	}

	profile, _, templates, _, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if profile.Name != "" {
		t.Error("profile survived reset")
	}
	if templates["KBM"] != models.DefaultTemplates["KBM"] {
		t.Error("template override survived reset")
	}
	if store.OnboardingCompleted() {
		t.Error("onboarding flag survived reset")
	}
}
