package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}
func valSev(p *domain.Severity) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

// Repo implements InspectionRepository, ReviewRepository and AccessRepository
// on one MySQL handle. All writes are single statements; multi-row operations
// in the services surface per-row errors instead of rolling back.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- properties ----

func (r *Repo) CreateProperty(ctx context.Context, p domain.Property) error {
	_, err := r.db.ExecContext(ctx, insertPropertySQL,
		p.ID, p.HouseNumber, p.Name, p.Address, p.Type,
		p.ConstructionStatus, p.TotalRooms, p.OwnerUserID, string(p.Visibility),
	)
	return err
}

func (r *Repo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	return scanProperty(r.db.QueryRowContext(ctx, getPropertySQL, id))
}

func (r *Repo) FindOwnedProperty(ctx context.Context, ownerID, houseNumber, address string) (domain.Property, error) {
	return scanProperty(r.db.QueryRowContext(ctx, findOwnedPropertySQL, ownerID, houseNumber, address))
}

func (r *Repo) SearchProperties(ctx context.Context, q string) ([]domain.Property, error) {
	pat := "%" + strings.TrimSpace(q) + "%"
	rows, err := r.db.QueryContext(ctx, searchPropertiesSQL, pat, pat, pat)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProperties(rows)
}

func (r *Repo) ListOwnedProperties(ctx context.Context, ownerID string, limit int) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, listOwnedPropertiesSQL, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProperties(rows)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanProperty(row rowScanner) (domain.Property, error) {
	var p domain.Property
	var vis string
	if err := row.Scan(
		&p.ID, &p.HouseNumber, &p.Name, &p.Address, &p.Type,
		&p.ConstructionStatus, &p.TotalRooms, &p.OwnerUserID, &vis,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, err
	}
	p.Visibility = domain.Visibility(vis)
	return p, nil
}

func collectProperties(rows *sql.Rows) ([]domain.Property, error) {
	var out []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---- rooms ----

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.ID, rm.PropertyID, rm.Name, rm.Type, valF64(rm.AreaSqft), valInt(rm.Floor),
	)
	return err
}

func (r *Repo) ListRooms(ctx context.Context, propertyID string) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		var rm domain.Room
		var area sql.NullFloat64
		var floor sql.NullInt64
		if err := rows.Scan(&rm.ID, &rm.PropertyID, &rm.Name, &rm.Type, &area, &floor); err != nil {
			return nil, err
		}
		if area.Valid {
			a := area.Float64
			rm.AreaSqft = &a
		}
		if floor.Valid {
			f := int(floor.Int64)
			rm.Floor = &f
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// ---- images, findings, documents ----

func (r *Repo) InsertImage(ctx context.Context, img domain.Image) error {
	_, err := r.db.ExecContext(ctx, insertImageSQL,
		img.ID, img.SessionID, img.UserID, img.PropertyID, img.RoomID, img.Scenario,
		img.URL, img.Filename, string(img.AIDefectType), img.AIConfidence,
		img.AIDescription, string(img.AISeverity), valBool(img.Verified), valStr(img.OverrideNotes),
	)
	return err
}

func (r *Repo) InsertFinding(ctx context.Context, f domain.Finding) error {
	_, err := r.db.ExecContext(ctx, insertFindingSQL,
		f.ID, f.RoomID, f.PropertyID, string(f.Category), f.Description,
		string(f.Severity), valStr(f.Notes), string(f.DetectedBy), f.Confidence,
	)
	return err
}

func (r *Repo) ListFindings(ctx context.Context, propertyID string) ([]domain.Finding, error) {
	rows, err := r.db.QueryContext(ctx, listFindingsSQL, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Finding
	for rows.Next() {
		var f domain.Finding
		var category, severity, detectedBy string
		var notes sql.NullString
		if err := rows.Scan(
			&f.ID, &f.RoomID, &f.PropertyID, &category, &f.Description,
			&severity, &notes, &detectedBy, &f.Confidence, &f.DetectedAt,
		); err != nil {
			return nil, err
		}
		f.Category = domain.DefectCategory(category)
		f.Severity = domain.Severity(severity)
		f.DetectedBy = domain.Detector(detectedBy)
		if notes.Valid {
			n := notes.String
			f.Notes = &n
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repo) InsertDocument(ctx context.Context, d domain.Document) error {
	_, err := r.db.ExecContext(ctx, insertDocumentSQL,
		d.ID, d.PropertyID, d.UserID, d.Filename, d.URL, d.Excerpt,
		d.AISummary, d.Suggestions,
	)
	return err
}

func (r *Repo) ListDocuments(ctx context.Context, propertyID string) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, listDocumentsSQL, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Document
	for rows.Next() {
		var d domain.Document
		var excerpt, summary, suggestions sql.NullString
		if err := rows.Scan(
			&d.ID, &d.PropertyID, &d.UserID, &d.Filename, &d.URL,
			&excerpt, &summary, &suggestions, &d.UploadedAt,
		); err != nil {
			return nil, err
		}
		d.Excerpt = excerpt.String
		d.AISummary = summary.String
		d.Suggestions = suggestions.String
		out = append(out, d)
	}
	return out, rows.Err()
}

// ---- inspector review ----

func (r *Repo) GetInspectorProfile(ctx context.Context, userID string) (domain.InspectorProfile, error) {
	var p domain.InspectorProfile
	var license sql.NullString
	err := r.db.QueryRowContext(ctx, getInspectorProfileSQL, userID).Scan(
		&p.ID, &p.UserID, &license, &p.YearsExperience, &p.Rating,
		&p.TotalInspections, &p.Verified,
	)
	if err == sql.ErrNoRows {
		return domain.InspectorProfile{}, fmt.Errorf("inspector profile for %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.InspectorProfile{}, err
	}
	p.LicenseNumber = license.String
	return p, nil
}

func (r *Repo) InsertDecision(ctx context.Context, d domain.FindingDecision) error {
	_, err := r.db.ExecContext(ctx, insertDecisionSQL,
		d.ID, d.FindingID, d.InspectorID, string(d.Decision), d.Notes,
		valSev(d.CorrectedSeverity),
	)
	return err
}

func (r *Repo) ListDecisions(ctx context.Context, findingID string) ([]domain.FindingDecision, error) {
	rows, err := r.db.QueryContext(ctx, listDecisionsSQL, findingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FindingDecision
	for rows.Next() {
		var d domain.FindingDecision
		var decision string
		var notes, corrected sql.NullString
		if err := rows.Scan(
			&d.ID, &d.FindingID, &d.InspectorID, &decision, &notes,
			&corrected, &d.DecidedAt,
		); err != nil {
			return nil, err
		}
		d.Decision = domain.Decision(decision)
		d.Notes = notes.String
		if corrected.Valid {
			s := domain.Severity(corrected.String)
			d.CorrectedSeverity = &s
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) InsertReport(ctx context.Context, rep domain.InspectorReport) error {
	_, err := r.db.ExecContext(ctx, insertReportSQL,
		rep.ID, rep.PropertyID, rep.InspectorID, rep.InspectedAt,
		rep.ManualScore, rep.AIScore, rep.Variance, rep.ApprovedScore,
		rep.Summary, rep.Status,
	)
	return err
}

func (r *Repo) GetReport(ctx context.Context, id string) (domain.InspectorReport, error) {
	return scanReport(r.db.QueryRowContext(ctx, getReportSQL, id))
}

func (r *Repo) LatestReport(ctx context.Context, propertyID string) (domain.InspectorReport, error) {
	return scanReport(r.db.QueryRowContext(ctx, latestReportSQL, propertyID))
}

func scanReport(row rowScanner) (domain.InspectorReport, error) {
	var rep domain.InspectorReport
	var summary sql.NullString
	if err := row.Scan(
		&rep.ID, &rep.PropertyID, &rep.InspectorID, &rep.InspectedAt,
		&rep.ManualScore, &rep.AIScore, &rep.Variance, &rep.ApprovedScore,
		&summary, &rep.Status,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.InspectorReport{}, domain.ErrNotFound
		}
		return domain.InspectorReport{}, err
	}
	rep.Summary = summary.String
	return rep, nil
}

func (r *Repo) InsertRating(ctx context.Context, rt domain.Rating) error {
	_, err := r.db.ExecContext(ctx, insertRatingSQL,
		rt.ID, rt.ReportID, rt.UserID, rt.InspectorID, rt.Score, rt.Feedback,
	)
	return err
}

func (r *Repo) RefreshInspectorRating(ctx context.Context, inspectorID string) error {
	_, err := r.db.ExecContext(ctx, refreshInspectorRatingSQL, inspectorID, inspectorID)
	return err
}

// ---- access & service requests ----

func (r *Repo) CreateAccessRequest(ctx context.Context, ar domain.AccessRequest) error {
	_, err := r.db.ExecContext(ctx, insertAccessRequestSQL,
		ar.ID, ar.PropertyID, ar.RequesterID, ar.OwnerID, string(ar.Status),
	)
	return err
}

func (r *Repo) GetAccessRequest(ctx context.Context, id string) (domain.AccessRequest, error) {
	return scanAccessRequest(r.db.QueryRowContext(ctx, getAccessRequestSQL, id))
}

func (r *Repo) FindAccessRequest(ctx context.Context, propertyID, requesterID string) (domain.AccessRequest, error) {
	return scanAccessRequest(r.db.QueryRowContext(ctx, findAccessRequestSQL, propertyID, requesterID))
}

func (r *Repo) ListPendingForOwner(ctx context.Context, ownerID string) ([]domain.AccessRequest, error) {
	rows, err := r.db.QueryContext(ctx, listPendingForOwnerSQL, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AccessRequest
	for rows.Next() {
		ar, err := scanAccessRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ar)
	}
	return out, rows.Err()
}

func (r *Repo) SetAccessStatus(ctx context.Context, id string, status domain.AccessStatus) error {
	res, err := r.db.ExecContext(ctx, setAccessStatusSQL, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAccessRequest(row rowScanner) (domain.AccessRequest, error) {
	var ar domain.AccessRequest
	var status string
	if err := row.Scan(
		&ar.ID, &ar.PropertyID, &ar.RequesterID, &ar.OwnerID, &status, &ar.RequestedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.AccessRequest{}, domain.ErrNotFound
		}
		return domain.AccessRequest{}, err
	}
	ar.Status = domain.AccessStatus(status)
	return ar, nil
}

func (r *Repo) CreateServiceRequest(ctx context.Context, sr domain.ServiceRequest) error {
	_, err := r.db.ExecContext(ctx, insertServiceRequestSQL,
		sr.ID, sr.PropertyID, sr.RequesterID, string(sr.Status),
	)
	return err
}

func (r *Repo) ListServiceRequests(ctx context.Context, status domain.ServiceRequestStatus) ([]domain.ServiceRequest, error) {
	rows, err := r.db.QueryContext(ctx, listServiceRequestsSQL, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ServiceRequest
	for rows.Next() {
		sr, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *Repo) SetServiceStatus(ctx context.Context, id string, status domain.ServiceRequestStatus) error {
	res, err := r.db.ExecContext(ctx, setServiceStatusSQL, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) ActiveServiceRequest(ctx context.Context, propertyID string) (domain.ServiceRequest, error) {
	return scanServiceRequest(r.db.QueryRowContext(ctx, activeServiceRequestSQL, propertyID))
}

func scanServiceRequest(row rowScanner) (domain.ServiceRequest, error) {
	var sr domain.ServiceRequest
	var status string
	if err := row.Scan(&sr.ID, &sr.PropertyID, &sr.RequesterID, &status, &sr.RequestedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.ServiceRequest{}, domain.ErrNotFound
		}
		return domain.ServiceRequest{}, err
	}
	sr.Status = domain.ServiceRequestStatus(status)
	return sr, nil
}
