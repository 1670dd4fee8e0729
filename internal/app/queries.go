package app

import (
	"context"
	"errors"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

// ReportService assembles read models. Risk scores are derived views: always
// recomputed from the base findings on every call, never materialized, so a
// report can never lag behind an upload that is still in progress.
type ReportService struct {
	repo    domain.InspectionRepository
	reviews domain.ReviewRepository
	access  *AccessService
}

func NewReportService(repo domain.InspectionRepository, reviews domain.ReviewRepository, access *AccessService) *ReportService {
	return &ReportService{repo: repo, reviews: reviews, access: access}
}

type PropertyReport struct {
	Property  domain.Property          `json:"property"`
	Risk      domain.PropertyRiskScore `json:"risk"`
	Summary   string                   `json:"executive_summary"`
	Rooms     []domain.RoomRiskScore   `json:"rooms"`
	Findings  []domain.Finding         `json:"findings"`
	Documents []domain.Document        `json:"documents"`
	Report    *domain.InspectorReport  `json:"inspector_report,omitempty"`
}

// PropertyReport builds the full report for a property the viewer may see.
// Access control is enforced here, not in the handler, so every caller gets
// the same gate.
func (s *ReportService) PropertyReport(ctx context.Context, propertyID, viewerID string) (PropertyReport, error) {
	prop, err := s.repo.GetProperty(ctx, propertyID)
	if err != nil {
		return PropertyReport{}, err
	}
	dec, err := s.access.evaluate(ctx, prop, viewerID)
	if err != nil {
		return PropertyReport{}, err
	}
	if !dec.Allowed {
		return PropertyReport{}, domain.ErrAccessDenied
	}

	findings, err := s.repo.ListFindings(ctx, propertyID)
	if err != nil {
		return PropertyReport{}, err
	}
	rooms, err := s.repo.ListRooms(ctx, propertyID)
	if err != nil {
		return PropertyReport{}, err
	}
	docs, err := s.repo.ListDocuments(ctx, propertyID)
	if err != nil {
		return PropertyReport{}, err
	}

	byRoom := make(map[string][]domain.Finding, len(rooms))
	for _, f := range findings {
		byRoom[f.RoomID] = append(byRoom[f.RoomID], f)
	}
	roomScores := make([]domain.RoomRiskScore, 0, len(rooms))
	for _, r := range rooms {
		roomScores = append(roomScores, domain.RoomRisk(r, byRoom[r.ID]))
	}

	risk := domain.PropertyRisk(propertyID, findings)
	out := PropertyReport{
		Property:  prop,
		Risk:      risk,
		Summary:   domain.ExecutiveSummary(risk),
		Rooms:     roomScores,
		Findings:  findings,
		Documents: docs,
	}

	if rep, err := s.reviews.LatestReport(ctx, propertyID); err == nil {
		out.Report = &rep
	} else if !errors.Is(err, domain.ErrNotFound) {
		return PropertyReport{}, err
	}
	return out, nil
}

type SearchResult struct {
	Property domain.Property `json:"property"`
	Access   AccessDecision  `json:"access"`
}

// Search matches house number or address and decorates each hit with the
// viewer's access state, so private reports render as locked/pending/
// requestable without a second round trip.
func (s *ReportService) Search(ctx context.Context, q, viewerID string) ([]SearchResult, error) {
	props, err := s.repo.SearchProperties(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]SearchResult, 0, len(props))
	for _, p := range props {
		dec, err := s.access.evaluate(ctx, p, viewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, SearchResult{Property: p, Access: dec})
	}
	return out, nil
}

type RecentInspection struct {
	Property domain.Property          `json:"property"`
	Risk     domain.PropertyRiskScore `json:"risk"`
}

// RecentInspections backs the owner dashboard: newest properties with their
// current risk, recomputed per call.
func (s *ReportService) RecentInspections(ctx context.Context, ownerID string, limit int) ([]RecentInspection, error) {
	if limit <= 0 {
		limit = 3
	}
	props, err := s.repo.ListOwnedProperties(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RecentInspection, 0, len(props))
	for _, p := range props {
		findings, err := s.repo.ListFindings(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, RecentInspection{Property: p, Risk: domain.PropertyRisk(p.ID, findings)})
	}
	return out, nil
}
