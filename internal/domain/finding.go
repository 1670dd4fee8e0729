package domain

import "time"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityOK       Severity = "ok"
)

// severityRank orders severities critical > high > medium > low > ok.
var severityRank = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
	SeverityOK:       0,
}

func (s Severity) Valid() bool { _, ok := severityRank[s]; return ok }

// Worse reports whether s outranks other.
func (s Severity) Worse(other Severity) bool { return severityRank[s] > severityRank[other] }

type DefectCategory string

const (
	DefectMoisture   DefectCategory = "moisture"
	DefectElectrical DefectCategory = "electrical"
	DefectStructural DefectCategory = "structural"
	DefectFinishing  DefectCategory = "finishing"
	DefectNone       DefectCategory = "none"
)

type Detector string

const (
	DetectedByAI        Detector = "ai"
	DetectedByInspector Detector = "inspector"
)

// Finding is a single severity-tagged defect detection. Findings are
// append-only; inspector review produces FindingDecision records instead of
// mutating the original.
type Finding struct {
	ID          string
	RoomID      string
	PropertyID  string
	Category    DefectCategory
	Description string
	Severity    Severity
	Notes       *string
	DetectedBy  Detector
	Confidence  float64
	DetectedAt  time.Time
}

type Image struct {
	ID            string
	SessionID     string
	UserID        string
	PropertyID    string
	RoomID        string
	Scenario      string // room_set|single
	URL           string
	Filename      string
	AIDefectType  DefectCategory
	AIConfidence  float64
	AIDescription string
	AISeverity    Severity
	Verified      *bool
	OverrideNotes *string
	UploadedAt    time.Time
}

type Document struct {
	ID          string
	PropertyID  string
	UserID      string
	Filename    string
	URL         string
	Excerpt     string
	AISummary   string
	Suggestions string
	UploadedAt  time.Time
}

type Decision string

const (
	DecisionConfirm Decision = "confirm"
	DecisionModify  Decision = "modify"
	DecisionReject  Decision = "reject"
)

// FindingDecision is an inspector's verdict on one AI finding. Append-only
// audit trail; the referenced Finding is never rewritten.
type FindingDecision struct {
	ID                string
	FindingID         string
	InspectorID       string
	Decision          Decision
	Notes             string
	CorrectedSeverity *Severity
	DecidedAt         time.Time
}
