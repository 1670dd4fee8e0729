package domain

import (
	"context"
	"io"
)

// ---- capability contracts (AI is pluggable; a mock always exists) ----

type Classification struct {
	DefectType  DefectCategory `json:"defect_type"`
	DefectName  string         `json:"val_defect_name"`
	Severity    Severity       `json:"severity"`
	Confidence  float64        `json:"confidence"`
	Description string         `json:"description"`
	Action      string         `json:"action"`
}

type DocumentAnalysis struct {
	Summary     string `json:"ai_summary"`
	Suggestions string `json:"ai_suggestions"`
}

type Comparison struct {
	SimilarityScore int      `json:"similarity_score"`
	Matches         []string `json:"matches"`
	Discrepancies   []string `json:"discrepancies"`
	Summary         string   `json:"summary"`
}

type Classifier interface {
	Classify(ctx context.Context, imageURL string) (Classification, error)
}

type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, text string) (DocumentAnalysis, error)
}

type Comparator interface {
	Compare(ctx context.Context, aiFindings, reportText string) (Comparison, error)
}

// ---- persistence ----

type InspectionRepository interface {
	CreateProperty(ctx context.Context, p Property) error
	GetProperty(ctx context.Context, id string) (Property, error)
	FindOwnedProperty(ctx context.Context, ownerID, houseNumber, address string) (Property, error)
	SearchProperties(ctx context.Context, q string) ([]Property, error)
	ListOwnedProperties(ctx context.Context, ownerID string, limit int) ([]Property, error)

	CreateRoom(ctx context.Context, r Room) error
	ListRooms(ctx context.Context, propertyID string) ([]Room, error)

	InsertImage(ctx context.Context, img Image) error
	InsertFinding(ctx context.Context, f Finding) error
	ListFindings(ctx context.Context, propertyID string) ([]Finding, error)

	InsertDocument(ctx context.Context, d Document) error
	ListDocuments(ctx context.Context, propertyID string) ([]Document, error)
}

type ReviewRepository interface {
	GetInspectorProfile(ctx context.Context, userID string) (InspectorProfile, error)
	InsertDecision(ctx context.Context, d FindingDecision) error
	ListDecisions(ctx context.Context, findingID string) ([]FindingDecision, error)
	InsertReport(ctx context.Context, r InspectorReport) error
	GetReport(ctx context.Context, id string) (InspectorReport, error)
	LatestReport(ctx context.Context, propertyID string) (InspectorReport, error)
	InsertRating(ctx context.Context, rt Rating) error
	// RefreshInspectorRating recomputes the aggregate rating and bumps the
	// inspection counter in one statement, so concurrent submissions cannot
	// interleave a read-then-write.
	RefreshInspectorRating(ctx context.Context, inspectorID string) error
}

type AccessRepository interface {
	CreateAccessRequest(ctx context.Context, ar AccessRequest) error
	GetAccessRequest(ctx context.Context, id string) (AccessRequest, error)
	FindAccessRequest(ctx context.Context, propertyID, requesterID string) (AccessRequest, error)
	ListPendingForOwner(ctx context.Context, ownerID string) ([]AccessRequest, error)
	SetAccessStatus(ctx context.Context, id string, status AccessStatus) error

	CreateServiceRequest(ctx context.Context, sr ServiceRequest) error
	ListServiceRequests(ctx context.Context, status ServiceRequestStatus) ([]ServiceRequest, error)
	SetServiceStatus(ctx context.Context, id string, status ServiceRequestStatus) error
	// ActiveServiceRequest returns the newest non-completed request for a
	// property, or ErrNotFound.
	ActiveServiceRequest(ctx context.Context, propertyID string) (ServiceRequest, error)
}

// ---- session & object storage ----

type SessionStore interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader, size int64) (url string, err error)
}
