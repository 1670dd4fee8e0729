package app_test

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

// ---- in-memory repositories ----

type memRepo struct {
	props    map[string]domain.Property
	rooms    []domain.Room
	images   []domain.Image
	findings []domain.Finding
	docs     []domain.Document

	failFindingInsert bool
}

func newMemRepo() *memRepo { return &memRepo{props: map[string]domain.Property{}} }

func (m *memRepo) CreateProperty(_ context.Context, p domain.Property) error {
	m.props[p.ID] = p
	return nil
}

func (m *memRepo) GetProperty(_ context.Context, id string) (domain.Property, error) {
	p, ok := m.props[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *memRepo) FindOwnedProperty(_ context.Context, ownerID, houseNumber, address string) (domain.Property, error) {
	for _, p := range m.props {
		if p.OwnerUserID == ownerID && (p.HouseNumber == houseNumber || p.Address == address) {
			return p, nil
		}
	}
	return domain.Property{}, domain.ErrNotFound
}

func (m *memRepo) SearchProperties(_ context.Context, q string) ([]domain.Property, error) {
	var out []domain.Property
	for _, p := range m.props {
		if strings.Contains(p.HouseNumber, q) || strings.Contains(p.Address, q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) ListOwnedProperties(_ context.Context, ownerID string, limit int) ([]domain.Property, error) {
	var out []domain.Property
	for _, p := range m.props {
		if p.OwnerUserID == ownerID {
			out = append(out, p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) CreateRoom(_ context.Context, r domain.Room) error {
	m.rooms = append(m.rooms, r)
	return nil
}

func (m *memRepo) ListRooms(_ context.Context, propertyID string) ([]domain.Room, error) {
	var out []domain.Room
	for _, r := range m.rooms {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) InsertImage(_ context.Context, img domain.Image) error {
	m.images = append(m.images, img)
	return nil
}

func (m *memRepo) InsertFinding(_ context.Context, f domain.Finding) error {
	if m.failFindingInsert {
		return errors.New("disk full")
	}
	m.findings = append(m.findings, f)
	return nil
}

func (m *memRepo) ListFindings(_ context.Context, propertyID string) ([]domain.Finding, error) {
	var out []domain.Finding
	for _, f := range m.findings {
		if f.PropertyID == propertyID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memRepo) InsertDocument(_ context.Context, d domain.Document) error {
	m.docs = append(m.docs, d)
	return nil
}

func (m *memRepo) ListDocuments(_ context.Context, propertyID string) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range m.docs {
		if d.PropertyID == propertyID {
			out = append(out, d)
		}
	}
	return out, nil
}

type memAccess struct {
	requests map[string]domain.AccessRequest
	services map[string]domain.ServiceRequest
}

func newMemAccess() *memAccess {
	return &memAccess{requests: map[string]domain.AccessRequest{}, services: map[string]domain.ServiceRequest{}}
}

func (m *memAccess) CreateAccessRequest(_ context.Context, ar domain.AccessRequest) error {
	m.requests[ar.ID] = ar
	return nil
}

func (m *memAccess) GetAccessRequest(_ context.Context, id string) (domain.AccessRequest, error) {
	ar, ok := m.requests[id]
	if !ok {
		return domain.AccessRequest{}, domain.ErrNotFound
	}
	return ar, nil
}

func (m *memAccess) FindAccessRequest(_ context.Context, propertyID, requesterID string) (domain.AccessRequest, error) {
	for _, ar := range m.requests {
		if ar.PropertyID == propertyID && ar.RequesterID == requesterID {
			return ar, nil
		}
	}
	return domain.AccessRequest{}, domain.ErrNotFound
}

func (m *memAccess) ListPendingForOwner(_ context.Context, ownerID string) ([]domain.AccessRequest, error) {
	var out []domain.AccessRequest
	for _, ar := range m.requests {
		if ar.OwnerID == ownerID && ar.Status == domain.AccessPending {
			out = append(out, ar)
		}
	}
	return out, nil
}

func (m *memAccess) SetAccessStatus(_ context.Context, id string, status domain.AccessStatus) error {
	ar, ok := m.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	ar.Status = status
	m.requests[id] = ar
	return nil
}

func (m *memAccess) CreateServiceRequest(_ context.Context, sr domain.ServiceRequest) error {
	m.services[sr.ID] = sr
	return nil
}

func (m *memAccess) ListServiceRequests(_ context.Context, status domain.ServiceRequestStatus) ([]domain.ServiceRequest, error) {
	var out []domain.ServiceRequest
	for _, sr := range m.services {
		if sr.Status == status {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (m *memAccess) SetServiceStatus(_ context.Context, id string, status domain.ServiceRequestStatus) error {
	sr, ok := m.services[id]
	if !ok {
		return domain.ErrNotFound
	}
	sr.Status = status
	m.services[id] = sr
	return nil
}

func (m *memAccess) ActiveServiceRequest(_ context.Context, propertyID string) (domain.ServiceRequest, error) {
	for _, sr := range m.services {
		if sr.PropertyID == propertyID && sr.Status != domain.ServiceCompleted {
			return sr, nil
		}
	}
	return domain.ServiceRequest{}, domain.ErrNotFound
}

type memReviews struct {
	profiles  map[string]domain.InspectorProfile // keyed by user id
	decisions []domain.FindingDecision
	reports   map[string]domain.InspectorReport
	ratings   []domain.Rating
	refreshed map[string]int
}

func newMemReviews() *memReviews {
	return &memReviews{
		profiles:  map[string]domain.InspectorProfile{},
		reports:   map[string]domain.InspectorReport{},
		refreshed: map[string]int{},
	}
}

func (m *memReviews) GetInspectorProfile(_ context.Context, userID string) (domain.InspectorProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return domain.InspectorProfile{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *memReviews) InsertDecision(_ context.Context, d domain.FindingDecision) error {
	m.decisions = append(m.decisions, d)
	return nil
}

func (m *memReviews) ListDecisions(_ context.Context, findingID string) ([]domain.FindingDecision, error) {
	var out []domain.FindingDecision
	for _, d := range m.decisions {
		if d.FindingID == findingID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memReviews) InsertReport(_ context.Context, r domain.InspectorReport) error {
	m.reports[r.ID] = r
	return nil
}

func (m *memReviews) GetReport(_ context.Context, id string) (domain.InspectorReport, error) {
	r, ok := m.reports[id]
	if !ok {
		return domain.InspectorReport{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memReviews) LatestReport(_ context.Context, propertyID string) (domain.InspectorReport, error) {
	for _, r := range m.reports {
		if r.PropertyID == propertyID {
			return r, nil
		}
	}
	return domain.InspectorReport{}, domain.ErrNotFound
}

func (m *memReviews) InsertRating(_ context.Context, rt domain.Rating) error {
	m.ratings = append(m.ratings, rt)
	return nil
}

func (m *memReviews) RefreshInspectorRating(_ context.Context, inspectorID string) error {
	m.refreshed[inspectorID]++
	return nil
}

// ---- session store ----

type memSessions struct{ store map[string]domain.Session }

func newMemSessions() *memSessions { return &memSessions{store: map[string]domain.Session{}} }

func (m *memSessions) Load(_ context.Context, id string) (domain.Session, error) {
	s, ok := m.store[id]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *memSessions) Save(_ context.Context, s domain.Session) error {
	m.store[s.ID] = s
	return nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.store, id)
	return nil
}

// ---- capabilities ----

type scriptedClassifier struct {
	byURL map[string]domain.Classification
	err   error
}

func (c *scriptedClassifier) Classify(_ context.Context, imageURL string) (domain.Classification, error) {
	if c.err != nil {
		return domain.Classification{}, c.err
	}
	if cls, ok := c.byURL[imageURL]; ok {
		return cls, nil
	}
	return domain.Classification{DefectType: domain.DefectNone, DefectName: "ok", Severity: domain.SeverityOK, Confidence: 0.9, Description: "No defects.", Action: "None."}, nil
}

type cannedAnalyzer struct{ out domain.DocumentAnalysis }

func (a *cannedAnalyzer) AnalyzeDocument(_ context.Context, _ string) (domain.DocumentAnalysis, error) {
	return a.out, nil
}

type cannedComparator struct {
	out     domain.Comparison
	gotAI   string
	gotText string
}

func (c *cannedComparator) Compare(_ context.Context, aiFindings, reportText string) (domain.Comparison, error) {
	c.gotAI, c.gotText = aiFindings, reportText
	return c.out, nil
}
