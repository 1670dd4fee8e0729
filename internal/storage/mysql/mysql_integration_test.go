//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
	mysqlrepo "github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=inspection",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/inspection?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_InspectionLifecycle(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	prop := domain.Property{
		ID:                 "PROP-0a1b2c3d",
		HouseNumber:        "42",
		Name:               "Maple Court",
		Address:            "42 Maple Street",
		Type:               "residential",
		ConstructionStatus: "existing",
		TotalRooms:         2,
		OwnerUserID:        "owner-1",
		Visibility:         domain.VisibilityPrivate,
	}
	if err := repo.CreateProperty(ctx, prop); err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	got, err := repo.GetProperty(ctx, prop.ID)
	if err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if got.Name != "Maple Court" || got.Visibility != domain.VisibilityPrivate {
		t.Fatalf("unexpected property: %+v", got)
	}

	found, err := repo.FindOwnedProperty(ctx, "owner-1", "42", "42 Maple Street")
	if err != nil || found.ID != prop.ID {
		t.Fatalf("FindOwnedProperty: %v (%+v)", err, found)
	}
	if _, err := repo.FindOwnedProperty(ctx, "owner-2", "42", "42 Maple Street"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound for other owner, got %v", err)
	}

	room := domain.Room{ID: "RM-11112222", PropertyID: prop.ID, Name: "Kitchen", Type: "kitchen"}
	if err := repo.CreateRoom(ctx, room); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	img := domain.Image{
		ID: "IMG-aaaa1111", SessionID: "SESS-abcd1234", UserID: "owner-1",
		PropertyID: prop.ID, RoomID: room.ID, Scenario: "room_set",
		URL: "http://objstore/inspection/damp.jpg", Filename: "damp.jpg",
		AIDefectType: domain.DefectMoisture, AIConfidence: 0.96,
		AIDescription: "Detected dampness.", AISeverity: domain.SeverityCritical,
	}
	if err := repo.InsertImage(ctx, img); err != nil {
		t.Fatalf("InsertImage: %v", err)
	}

	finding := domain.Finding{
		ID: "FND-bbbb2222", RoomID: room.ID, PropertyID: prop.ID,
		Category: domain.DefectMoisture, Description: "Detected dampness. Action: Treat mold.",
		Severity: domain.SeverityCritical, DetectedBy: domain.DetectedByAI, Confidence: 0.96,
	}
	if err := repo.InsertFinding(ctx, finding); err != nil {
		t.Fatalf("InsertFinding: %v", err)
	}

	findings, err := repo.ListFindings(ctx, prop.ID)
	if err != nil || len(findings) != 1 {
		t.Fatalf("ListFindings: %v (%d)", err, len(findings))
	}
	if findings[0].Severity != domain.SeverityCritical || findings[0].Notes != nil {
		t.Fatalf("unexpected finding: %+v", findings[0])
	}

	doc := domain.Document{
		ID: "DOC-cccc3333", PropertyID: prop.ID, UserID: "owner-1",
		Filename: "survey.txt", URL: "http://objstore/inspection/survey.txt",
		Excerpt: "Walls show moisture ingress.", AISummary: "Moisture issues noted.",
		Suggestions: "- Waterproof exterior.",
	}
	if err := repo.InsertDocument(ctx, doc); err != nil {
		t.Fatalf("InsertDocument: %v", err)
	}
	docs, err := repo.ListDocuments(ctx, prop.ID)
	if err != nil || len(docs) != 1 || docs[0].AISummary != "Moisture issues noted." {
		t.Fatalf("ListDocuments: %v (%+v)", err, docs)
	}

	hits, err := repo.SearchProperties(ctx, "maple")
	if err != nil || len(hits) != 1 {
		t.Fatalf("SearchProperties: %v (%d)", err, len(hits))
	}
}

func TestRepo_MySQL_ReviewAndRatings(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if _, err := db.Exec(`INSERT INTO inspector_profiles
	  (inspector_id, user_id, license_number, years_experience, rating, total_inspections, verified_inspector)
	  VALUES ('INS-00000001', 'insp-user-1', 'LIC-9', 6, 0, 0, TRUE)`); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	prof, err := repo.GetInspectorProfile(ctx, "insp-user-1")
	if err != nil {
		t.Fatalf("GetInspectorProfile: %v", err)
	}
	if prof.ID != "INS-00000001" || !prof.Verified {
		t.Fatalf("unexpected profile: %+v", prof)
	}
	if _, err := repo.GetInspectorProfile(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	sev := domain.SeverityMedium
	dec := domain.FindingDecision{
		ID: "DEC-dddd4444", FindingID: "FND-bbbb2222", InspectorID: prof.ID,
		Decision: domain.DecisionModify, Notes: "overstated", CorrectedSeverity: &sev,
	}
	if err := repo.InsertDecision(ctx, dec); err != nil {
		t.Fatalf("InsertDecision: %v", err)
	}
	decs, err := repo.ListDecisions(ctx, "FND-bbbb2222")
	if err != nil || len(decs) != 1 {
		t.Fatalf("ListDecisions: %v (%d)", err, len(decs))
	}
	if decs[0].CorrectedSeverity == nil || *decs[0].CorrectedSeverity != domain.SeverityMedium {
		t.Fatalf("corrected severity not round-tripped: %+v", decs[0])
	}

	rep := domain.InspectorReport{
		ID: "REP-eeee5555", PropertyID: "PROP-0a1b2c3d", InspectorID: prof.ID,
		InspectedAt: time.Now().UTC().Truncate(time.Second),
		ManualScore: 70, AIScore: 50, Variance: 20, ApprovedScore: 70,
		Summary: "Manual walkthrough found more damage.", Status: "submitted",
	}
	if err := repo.InsertReport(ctx, rep); err != nil {
		t.Fatalf("InsertReport: %v", err)
	}

	latest, err := repo.LatestReport(ctx, "PROP-0a1b2c3d")
	if err != nil || latest.ID != rep.ID {
		t.Fatalf("LatestReport: %v (%+v)", err, latest)
	}
	if !latest.HighVariance() {
		t.Fatalf("variance 20 should flag high variance")
	}

	for i, score := range []int{5, 4} {
		rt := domain.Rating{
			ID: fmt.Sprintf("RAT-0000000%d", i), ReportID: rep.ID,
			UserID: "owner-1", InspectorID: prof.ID, Score: score, Feedback: "thorough",
		}
		if err := repo.InsertRating(ctx, rt); err != nil {
			t.Fatalf("InsertRating: %v", err)
		}
		if err := repo.RefreshInspectorRating(ctx, prof.ID); err != nil {
			t.Fatalf("RefreshInspectorRating: %v", err)
		}
	}

	prof, err = repo.GetInspectorProfile(ctx, "insp-user-1")
	if err != nil {
		t.Fatalf("GetInspectorProfile: %v", err)
	}
	if prof.Rating != 4.5 {
		t.Fatalf("rating = %v, want 4.5", prof.Rating)
	}
	if prof.TotalInspections != 2 {
		t.Fatalf("total_inspections = %d, want 2", prof.TotalInspections)
	}
}

func TestRepo_MySQL_AccessAndServiceRequests(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	ar := domain.AccessRequest{
		ID: "REQ-f0f0f0f0", PropertyID: "PROP-0a1b2c3d",
		RequesterID: "viewer-1", OwnerID: "owner-1", Status: domain.AccessPending,
	}
	if err := repo.CreateAccessRequest(ctx, ar); err != nil {
		t.Fatalf("CreateAccessRequest: %v", err)
	}

	found, err := repo.FindAccessRequest(ctx, ar.PropertyID, "viewer-1")
	if err != nil || found.Status != domain.AccessPending {
		t.Fatalf("FindAccessRequest: %v (%+v)", err, found)
	}

	pending, err := repo.ListPendingForOwner(ctx, "owner-1")
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListPendingForOwner: %v (%d)", err, len(pending))
	}

	if err := repo.SetAccessStatus(ctx, ar.ID, domain.AccessApproved); err != nil {
		t.Fatalf("SetAccessStatus: %v", err)
	}
	if err := repo.SetAccessStatus(ctx, "REQ-missing0", domain.AccessApproved); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing request, got %v", err)
	}

	sr := domain.ServiceRequest{
		ID: "SR-01010101", PropertyID: "PROP-0a1b2c3d",
		RequesterID: "owner-1", Status: domain.ServiceRequested,
	}
	if err := repo.CreateServiceRequest(ctx, sr); err != nil {
		t.Fatalf("CreateServiceRequest: %v", err)
	}

	open, err := repo.ListServiceRequests(ctx, domain.ServiceRequested)
	if err != nil || len(open) != 1 {
		t.Fatalf("ListServiceRequests: %v (%d)", err, len(open))
	}

	active, err := repo.ActiveServiceRequest(ctx, sr.PropertyID)
	if err != nil || active.ID != sr.ID {
		t.Fatalf("ActiveServiceRequest: %v (%+v)", err, active)
	}

	if err := repo.SetServiceStatus(ctx, sr.ID, domain.ServiceCompleted); err != nil {
		t.Fatalf("SetServiceStatus: %v", err)
	}
	if _, err := repo.ActiveServiceRequest(ctx, sr.PropertyID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("completed request should not be active: %v", err)
	}
}
