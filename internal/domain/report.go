package domain

import "time"

// VarianceWarnThreshold marks manual-vs-AI score gaps that need justification.
const VarianceWarnThreshold = 15.0

type InspectorReport struct {
	ID            string
	PropertyID    string
	InspectorID   string
	InspectedAt   time.Time
	ManualScore   float64
	AIScore       float64
	Variance      float64
	ApprovedScore float64
	Summary       string
	Status        string // submitted
}

// HighVariance reports whether the manual score diverges from the AI score
// enough to warrant a warning. Not a hard block.
func (r InspectorReport) HighVariance() bool { return r.Variance > VarianceWarnThreshold }

type Rating struct {
	ID          string
	ReportID    string
	UserID      string
	InspectorID string
	Score       int // 1-5
	Feedback    string
	CreatedAt   time.Time
}

type InspectorProfile struct {
	ID               string
	UserID           string
	LicenseNumber    string
	YearsExperience  int
	Rating           float64
	TotalInspections int
	Verified         bool
}
