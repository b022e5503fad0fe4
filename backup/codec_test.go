package backup

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"izinkuy/models"
)

func sampleDocument() models.BackupDocument {
	return models.NewBackupDocument(
		models.Profile{Name: "Ahmad", Unit: "MA"},
		[]models.ScheduleItem{
			{ID: "s1", DayIndex: 1, Subject: "Matematika", ClassName: "7A", StartTime: "07:30", EndTime: "09:00"},
		},
		map[string]string{"KBM": "Izin {{nama}}"},
		[]models.HistoryItem{
			{ID: "h1", CreatedAt: 1700000000000, Type: "KBM", PermissionDate: "2026-01-05", Reason: "sakit", GeneratedText: "Izin Ahmad"},
		},
		time.UnixMilli(1700000000000),
	)
}

func TestExportImportRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := Export(doc)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	got, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if !reflect.DeepEqual(*got, doc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", *got, doc)
	}
}

func TestImportRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"missing profile", `{"schedules":[]}`},
		{"null profile", `{"userProfile":null,"schedules":[]}`},
		{"missing schedules", `{"userProfile":{"name":"A"}}`},
		{"schedules not array", `{"userProfile":{"name":"A"},"schedules":{"a":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import([]byte(tt.data))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Import() error = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestImportDefaultsMissingCollections(t *testing.T) {
	doc, err := Import([]byte(`{"userProfile":{"name":"A","unit":"MA"},"schedules":[]}`))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if doc.Version != models.BackupVersion {
		t.Errorf("Version = %d, want %d", doc.Version, models.BackupVersion)
	}
	if doc.Templates == nil {
		t.Error("Templates not defaulted to empty map")
	}
	if doc.History == nil {
		t.Error("History not defaulted to empty slice")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, time.August, 30, 10, 0, 0, 0, time.Local)
	want := "izinkuy_backup_2026-08-30.json"
	if got := Filename(now); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}
