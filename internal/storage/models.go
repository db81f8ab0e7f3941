package storage

import "time"

// Record is one stored extraction result. Fields that the model did not
// produce are empty strings, never null; the table's columns carry
// NOT NULL DEFAULT '' so reads are uniform for machine consumers.
type Record struct {
	ID                  int64     `json:"id,omitempty"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Number              string    `json:"number"`
	ProfessionalSummary string    `json:"professional_summary"`
	ProjectName         string    `json:"project_name"`
	Skills              string    `json:"skills"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
}

// Criteria filters record lookups.
type Criteria struct {
	Name   string   `json:"name"`
	Number string   `json:"number"`
	Skills []string `json:"skills"`
}
