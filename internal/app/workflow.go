package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

const maxRoomsPerInspection = 20

// WorkflowService drives the inspection wizard:
// not_started -> room_config -> uploading(i) -> document_upload -> complete.
// Classifier and analyzer are expected to be fallback-wrapped, so a capability
// outage degrades results instead of halting a session mid-flight.
type WorkflowService struct {
	repo       domain.InspectionRepository
	access     domain.AccessRepository
	sessions   domain.SessionStore
	classifier domain.Classifier
	analyzer   domain.DocumentAnalyzer
}

func NewWorkflowService(
	repo domain.InspectionRepository,
	access domain.AccessRepository,
	sessions domain.SessionStore,
	classifier domain.Classifier,
	analyzer domain.DocumentAnalyzer,
) *WorkflowService {
	return &WorkflowService{repo: repo, access: access, sessions: sessions, classifier: classifier, analyzer: analyzer}
}

type StartInput struct {
	UserID      string
	Role        domain.Role
	PropertyID  string // reuse an existing property when set
	Name        string
	HouseNumber string
	Address     string
	ServiceID   string // links the session to a professional-inspection request
}

// Start validates the property details, creates the property when needed and
// opens a fresh session at the room-config step.
func (s *WorkflowService) Start(ctx context.Context, in StartInput) (domain.Session, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.HouseNumber) == "" {
		return domain.Session{}, domain.Validationf("property name and house/unit number are required")
	}

	propID := in.PropertyID
	exists := false
	if propID != "" {
		if _, err := s.repo.GetProperty(ctx, propID); err == nil {
			exists = true
		} else if !errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, err
		}
	}
	if propID == "" {
		propID = domain.NewID("PROP")
	}
	if !exists {
		p := domain.Property{
			ID:                 propID,
			HouseNumber:        in.HouseNumber,
			Name:               in.Name,
			Address:            in.Address,
			Type:               "residential",
			ConstructionStatus: "existing",
			TotalRooms:         1,
			OwnerUserID:        in.UserID,
			Visibility:         domain.VisibilityPrivate,
		}
		if err := s.repo.CreateProperty(ctx, p); err != nil {
			return domain.Session{}, fmt.Errorf("create property: %w", err)
		}
	}

	sess := domain.Session{
		ID:           domain.NewID("SESS"),
		UserID:       in.UserID,
		Role:         in.Role,
		Step:         domain.StepRoomConfig,
		PropertyID:   propID,
		PropertyName: in.Name,
		ServiceID:    in.ServiceID,
		StartedAt:    time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	log.Info().Str("session", sess.ID).Str("property", propID).Msg("inspection started")
	return sess, nil
}

// ConfigureRooms fixes the room list and moves the wizard to uploading(0).
// An empty list is not an error: a single generic room is substituted.
func (s *WorkflowService) ConfigureRooms(ctx context.Context, sessionID string, rooms []domain.RoomSpec) (domain.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.Step != domain.StepRoomConfig {
		return domain.Session{}, fmt.Errorf("%w: configure rooms from step %s", domain.ErrBadTransition, sess.Step)
	}
	if len(rooms) > maxRoomsPerInspection {
		return domain.Session{}, domain.Validationf("at most %d rooms per inspection", maxRoomsPerInspection)
	}
	if len(rooms) == 0 {
		rooms = []domain.RoomSpec{{Name: "Single Room", Type: "generic"}}
	}
	for i, r := range rooms {
		if strings.TrimSpace(r.Name) == "" {
			return domain.Session{}, domain.Validationf("room %d has no name", i+1)
		}
	}

	sess.Rooms = rooms
	sess.RoomIndex = 0
	sess.Step = domain.StepUploading

	// Entering uploading(0) marks a linked professional-inspection request
	// as picked up.
	if sess.ServiceID != "" {
		if err := s.access.SetServiceStatus(ctx, sess.ServiceID, domain.ServiceInProgress); err != nil {
			log.Warn().Err(err).Str("service", sess.ServiceID).Msg("mark service request in_progress failed")
		}
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Upload is one stored image awaiting classification.
type Upload struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ImageResult reports what the classifier decided for one upload.
type ImageResult struct {
	ImageID        string                `json:"image_id"`
	Filename       string                `json:"filename"`
	Classification domain.Classification `json:"classification"`
	FindingID      string                `json:"finding_id,omitempty"`
}

// AdvanceRoom classifies every upload for the current room, persists images
// and findings, then steps the wizard forward. Each image is an independent
// unit of work: a failed write is surfaced but does not abort the rest, and
// nothing already written is rolled back.
func (s *WorkflowService) AdvanceRoom(ctx context.Context, sessionID string, uploads []Upload) (domain.Session, []ImageResult, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.Session{}, nil, err
	}
	spec, ok := sess.CurrentRoom()
	if !ok {
		return domain.Session{}, nil, fmt.Errorf("%w: advance room from step %s", domain.ErrBadTransition, sess.Step)
	}

	var results []ImageResult
	var writeErrs []error
	if len(uploads) > 0 {
		room := domain.Room{
			ID:         domain.NewID("RM"),
			PropertyID: sess.PropertyID,
			Name:       spec.Name,
			Type:       spec.Type,
		}
		if err := s.repo.CreateRoom(ctx, room); err != nil {
			return domain.Session{}, nil, fmt.Errorf("create room: %w", err)
		}

		batch := domain.NewID("SESS")
		for _, up := range uploads {
			cls, err := s.classifier.Classify(ctx, up.URL)
			if err != nil {
				// Fallback wrapper should have absorbed this; treat a
				// surviving error as a clean image rather than halting.
				log.Error().Err(err).Str("image", up.Filename).Msg("classifier failed past fallback")
				cls = domain.Classification{DefectType: domain.DefectNone, DefectName: "ok", Severity: domain.SeverityOK, Description: "Classification unavailable.", Action: "None"}
			}

			img := domain.Image{
				ID:            domain.NewID("IMG"),
				SessionID:     batch,
				UserID:        sess.UserID,
				PropertyID:    sess.PropertyID,
				RoomID:        room.ID,
				Scenario:      "room_set",
				URL:           up.URL,
				Filename:      up.Filename,
				AIDefectType:  cls.DefectType,
				AIConfidence:  cls.Confidence,
				AIDescription: cls.Description,
				AISeverity:    cls.Severity,
			}
			if err := s.repo.InsertImage(ctx, img); err != nil {
				writeErrs = append(writeErrs, fmt.Errorf("image %s: %w", up.Filename, err))
				continue
			}

			res := ImageResult{ImageID: img.ID, Filename: up.Filename, Classification: cls}
			if cls.DefectType != domain.DefectNone {
				f := domain.Finding{
					ID:          domain.NewID("FND"),
					RoomID:      room.ID,
					PropertyID:  sess.PropertyID,
					Category:    cls.DefectType,
					Description: cls.Description + " Action: " + cls.Action,
					Severity:    cls.Severity,
					DetectedBy:  domain.DetectedByAI,
					Confidence:  cls.Confidence,
				}
				if err := s.repo.InsertFinding(ctx, f); err != nil {
					writeErrs = append(writeErrs, fmt.Errorf("finding for %s: %w", up.Filename, err))
				} else {
					res.FindingID = f.ID
				}
			}
			results = append(results, res)
		}
	}

	sess.RoomIndex++
	if sess.RoomIndex >= len(sess.Rooms) {
		sess.Step = domain.StepDocumentUpload
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, nil, fmt.Errorf("save session: %w", err)
	}
	return sess, results, errors.Join(writeErrs...)
}

// DocumentInput carries already-extracted report text; PDF/text extraction
// happens upstream of this module.
type DocumentInput struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Text     string `json:"text"`
}

const excerptLen = 500

// ProcessDocuments analyzes each uploaded report and completes the session.
func (s *WorkflowService) ProcessDocuments(ctx context.Context, sessionID string, docs []DocumentInput) (domain.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.Step != domain.StepDocumentUpload {
		return domain.Session{}, fmt.Errorf("%w: process documents from step %s", domain.ErrBadTransition, sess.Step)
	}

	var writeErrs []error
	for _, in := range docs {
		if strings.TrimSpace(in.Text) == "" {
			continue
		}
		analysis, err := s.analyzer.AnalyzeDocument(ctx, in.Text)
		if err != nil {
			log.Error().Err(err).Str("doc", in.Filename).Msg("document analysis failed past fallback")
		}
		d := domain.Document{
			ID:          domain.NewID("DOC"),
			PropertyID:  sess.PropertyID,
			UserID:      sess.UserID,
			Filename:    in.Filename,
			URL:         in.URL,
			Excerpt:     excerpt(in.Text),
			AISummary:   analysis.Summary,
			Suggestions: analysis.Suggestions,
		}
		if err := s.repo.InsertDocument(ctx, d); err != nil {
			writeErrs = append(writeErrs, fmt.Errorf("document %s: %w", in.Filename, err))
		}
	}

	sess.Step = domain.StepComplete
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, errors.Join(writeErrs...)
}

// SkipDocuments completes the session without document analysis.
func (s *WorkflowService) SkipDocuments(ctx context.Context, sessionID string) (domain.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.Step != domain.StepDocumentUpload {
		return domain.Session{}, fmt.Errorf("%w: skip documents from step %s", domain.ErrBadTransition, sess.Step)
	}
	sess.Step = domain.StepComplete
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *WorkflowService) Session(ctx context.Context, id string) (domain.Session, error) {
	return s.sessions.Load(ctx, id)
}

// RequestInspection files a professional-inspection request, reusing the
// requester's property when house number or address already match.
func (s *WorkflowService) RequestInspection(ctx context.Context, userID, name, houseNumber, address string) (domain.ServiceRequest, error) {
	if strings.TrimSpace(houseNumber) == "" || strings.TrimSpace(address) == "" {
		return domain.ServiceRequest{}, domain.Validationf("address and house number are required")
	}

	prop, err := s.repo.FindOwnedProperty(ctx, userID, houseNumber, address)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if name == "" {
			name = address
		}
		prop = domain.Property{
			ID:                 domain.NewID("PROP"),
			HouseNumber:        houseNumber,
			Name:               name,
			Address:            address,
			Type:               "residential",
			ConstructionStatus: "existing",
			TotalRooms:         1,
			OwnerUserID:        userID,
			Visibility:         domain.VisibilityPrivate,
		}
		if err := s.repo.CreateProperty(ctx, prop); err != nil {
			return domain.ServiceRequest{}, fmt.Errorf("create property: %w", err)
		}
	case err != nil:
		return domain.ServiceRequest{}, err
	}

	sr := domain.ServiceRequest{
		ID:          domain.NewID("SR"),
		PropertyID:  prop.ID,
		RequesterID: userID,
		Status:      domain.ServiceRequested,
	}
	if err := s.access.CreateServiceRequest(ctx, sr); err != nil {
		return domain.ServiceRequest{}, fmt.Errorf("create service request: %w", err)
	}
	return sr, nil
}

// Assignments lists open professional-inspection requests for inspectors.
func (s *WorkflowService) Assignments(ctx context.Context) ([]domain.ServiceRequest, error) {
	return s.access.ListServiceRequests(ctx, domain.ServiceRequested)
}

func excerpt(text string) string {
	r := []rune(text)
	if len(r) <= excerptLen {
		return text
	}
	return string(r[:excerptLen]) + "..."
}
