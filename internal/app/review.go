package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

// ReviewService covers the inspector's post-inspection flow: cross-checking
// AI findings against an uploaded report, recording per-finding decisions and
// submitting the final report, plus the owner-side service rating.
type ReviewService struct {
	repo       domain.InspectionRepository
	reviews    domain.ReviewRepository
	access     domain.AccessRepository
	comparator domain.Comparator
}

func NewReviewService(
	repo domain.InspectionRepository,
	reviews domain.ReviewRepository,
	access domain.AccessRepository,
	comparator domain.Comparator,
) *ReviewService {
	return &ReviewService{repo: repo, reviews: reviews, access: access, comparator: comparator}
}

// CrossCheck compares the property's AI findings with the first uploaded
// inspection document. Requires both to exist.
func (s *ReviewService) CrossCheck(ctx context.Context, propertyID string) (domain.Comparison, error) {
	findings, err := s.repo.ListFindings(ctx, propertyID)
	if err != nil {
		return domain.Comparison{}, err
	}
	if len(findings) == 0 {
		return domain.Comparison{}, fmt.Errorf("%w: no AI findings for property %s", domain.ErrNotFound, propertyID)
	}
	docs, err := s.repo.ListDocuments(ctx, propertyID)
	if err != nil {
		return domain.Comparison{}, err
	}
	if len(docs) == 0 {
		return domain.Comparison{}, fmt.Errorf("%w: no inspection document for property %s", domain.ErrNotFound, propertyID)
	}

	rooms, err := s.repo.ListRooms(ctx, propertyID)
	if err != nil {
		return domain.Comparison{}, err
	}
	return s.comparator.Compare(ctx, findingsDigest(findings, rooms), docs[0].Excerpt)
}

// findingsDigest renders AI findings as the line format the comparator
// prompt expects.
func findingsDigest(findings []domain.Finding, rooms []domain.Room) string {
	names := make(map[string]string, len(rooms))
	for _, r := range rooms {
		names[r.ID] = r.Name
	}
	var b strings.Builder
	for _, f := range findings {
		if f.DetectedBy != domain.DetectedByAI {
			continue
		}
		room := names[f.RoomID]
		if room == "" {
			room = f.RoomID
		}
		fmt.Fprintf(&b, "- %s: Detected %s (%s)\n", room, f.Category, f.Description)
	}
	return b.String()
}

type DecisionInput struct {
	FindingID         string           `json:"finding_id"`
	Decision          domain.Decision  `json:"decision"`
	Notes             string           `json:"notes"`
	CorrectedSeverity *domain.Severity `json:"corrected_severity,omitempty"`
}

// RecordDecisions persists the inspector's verdicts. Decisions are an
// append-only audit trail; the underlying AI findings stay untouched. Each
// row is an independent unit of work.
func (s *ReviewService) RecordDecisions(ctx context.Context, inspectorUserID string, decisions []DecisionInput) error {
	profile, err := s.reviews.GetInspectorProfile(ctx, inspectorUserID)
	if err != nil {
		return fmt.Errorf("inspector profile: %w", err)
	}

	var writeErrs []error
	for _, in := range decisions {
		switch in.Decision {
		case domain.DecisionConfirm, domain.DecisionReject:
		case domain.DecisionModify:
			if in.CorrectedSeverity == nil || !in.CorrectedSeverity.Valid() {
				writeErrs = append(writeErrs, domain.Validationf("decision on %s: modify requires a corrected severity", in.FindingID))
				continue
			}
		default:
			writeErrs = append(writeErrs, domain.Validationf("decision on %s: unknown action %q", in.FindingID, in.Decision))
			continue
		}

		d := domain.FindingDecision{
			ID:                domain.NewID("DEC"),
			FindingID:         in.FindingID,
			InspectorID:       profile.ID,
			Decision:          in.Decision,
			Notes:             in.Notes,
			CorrectedSeverity: in.CorrectedSeverity,
		}
		if err := s.reviews.InsertDecision(ctx, d); err != nil {
			writeErrs = append(writeErrs, fmt.Errorf("decision on %s: %w", in.FindingID, err))
		}
	}
	return errors.Join(writeErrs...)
}

// SubmitReport finalizes the inspection. The AI score is recomputed from the
// current findings set at submission time, never read from a cache.
func (s *ReviewService) SubmitReport(ctx context.Context, inspectorUserID, propertyID string, manualScore float64, summary string) (domain.InspectorReport, error) {
	if manualScore < 0 || manualScore > 100 {
		return domain.InspectorReport{}, domain.Validationf("manual score must be between 0 and 100")
	}
	if _, err := s.repo.GetProperty(ctx, propertyID); err != nil {
		return domain.InspectorReport{}, err
	}

	findings, err := s.repo.ListFindings(ctx, propertyID)
	if err != nil {
		return domain.InspectorReport{}, err
	}
	aiScore := float64(domain.PropertyRisk(propertyID, findings).Score)

	inspectorID := "UNK"
	if profile, err := s.reviews.GetInspectorProfile(ctx, inspectorUserID); err == nil {
		inspectorID = profile.ID
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.InspectorReport{}, err
	}

	report := domain.InspectorReport{
		ID:            domain.NewID("REP"),
		PropertyID:    propertyID,
		InspectorID:   inspectorID,
		ManualScore:   manualScore,
		AIScore:       aiScore,
		Variance:      math.Abs(manualScore - aiScore),
		ApprovedScore: manualScore,
		Summary:       summary,
		Status:        "submitted",
	}
	if err := s.reviews.InsertReport(ctx, report); err != nil {
		return domain.InspectorReport{}, fmt.Errorf("insert report: %w", err)
	}
	if report.HighVariance() {
		log.Warn().Str("property", propertyID).Float64("variance", report.Variance).
			Msg("manual score diverges from AI score beyond threshold")
	}

	// A submitted report closes out an in-progress service request.
	if sr, err := s.access.ActiveServiceRequest(ctx, propertyID); err == nil && sr.Status == domain.ServiceInProgress {
		if err := s.access.SetServiceStatus(ctx, sr.ID, domain.ServiceCompleted); err != nil {
			log.Warn().Err(err).Str("service", sr.ID).Msg("complete service request failed")
		}
	}
	return report, nil
}

// Rate records a 1-5 service rating against a submitted report and refreshes
// the inspector's aggregate in a single statement.
func (s *ReviewService) Rate(ctx context.Context, userID, reportID string, score int, feedback string) (domain.Rating, error) {
	if score < 1 || score > 5 {
		return domain.Rating{}, domain.Validationf("rating must be between 1 and 5")
	}
	report, err := s.reviews.GetReport(ctx, reportID)
	if err != nil {
		return domain.Rating{}, err
	}

	rt := domain.Rating{
		ID:          domain.NewID("RAT"),
		ReportID:    report.ID,
		UserID:      userID,
		InspectorID: report.InspectorID,
		Score:       score,
		Feedback:    feedback,
	}
	if err := s.reviews.InsertRating(ctx, rt); err != nil {
		return domain.Rating{}, fmt.Errorf("insert rating: %w", err)
	}
	if err := s.reviews.RefreshInspectorRating(ctx, report.InspectorID); err != nil {
		return domain.Rating{}, fmt.Errorf("refresh inspector rating: %w", err)
	}
	return rt, nil
}
