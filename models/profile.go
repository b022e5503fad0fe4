package models

// Profile holds the employee identity data used to fill letter templates.
// All fields are free text; absent values are empty strings, never nil.
type Profile struct {
	Name               string `json:"name"`
	IDNumber           string `json:"idNumber"`           // No Induk Karyawan
	Unit               string `json:"unit"`               // Unit/Bagian
	Status             string `json:"status"`             // Status Karyawan (GHY, Tetap, dll)
	FunctionalPosition string `json:"functionalPosition"` // Jabatan Fungsional
	StructuralPosition string `json:"structuralPosition"` // Jabatan Struktural
	Workload           string `json:"workload"`           // Beban Jam Kerja
	StartTime          string `json:"startTime"`          // Jam Masuk
	EndTime            string `json:"endTime"`            // Jam Pulang
}

// IsComplete reports whether the minimum fields for letter generation are set.
func (p Profile) IsComplete() bool {
	return p.Name != "" && p.Unit != ""
}
