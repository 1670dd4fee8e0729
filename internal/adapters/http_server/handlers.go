package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/app"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

// Identity is a deliberate placeholder: upstream auth terminates elsewhere
// and forwards these headers.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

type Handlers struct {
	Workflow *app.WorkflowService
	Review   *app.ReviewService
	Access   *app.AccessService
	Reports  *app.ReportService
	Uploads  domain.ObjectStore
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/inspections", h.startInspection)
	s.mux.Get("/v1/inspections/{sid}", h.getSession)
	s.mux.Post("/v1/inspections/{sid}/rooms", h.configureRooms)
	s.mux.Post("/v1/inspections/{sid}/rooms/advance", h.advanceRoom)
	s.mux.Post("/v1/inspections/{sid}/documents", h.processDocuments)
	s.mux.Post("/v1/inspections/{sid}/documents/skip", h.skipDocuments)

	s.mux.Get("/v1/properties", h.searchProperties)
	s.mux.Get("/v1/properties/{id}/report", h.propertyReport)
	s.mux.Post("/v1/properties/{id}/access-requests", h.requestAccess)
	s.mux.Post("/v1/properties/{id}/cross-check", h.crossCheck)
	s.mux.Post("/v1/properties/{id}/decisions", h.recordDecisions)
	s.mux.Post("/v1/properties/{id}/inspector-report", h.submitReport)

	s.mux.Get("/v1/access-requests", h.pendingAccessRequests)
	s.mux.Post("/v1/access-requests/{id}/approve", h.approveAccess)
	s.mux.Post("/v1/access-requests/{id}/reject", h.rejectAccess)

	s.mux.Post("/v1/service-requests", h.requestService)
	s.mux.Get("/v1/service-requests", h.listAssignments)

	s.mux.Get("/v1/dashboard/recent", h.recentInspections)

	s.mux.Post("/v1/uploads", h.upload)

	s.mux.Post("/v1/reports/{id}/ratings", h.rateReport)
}

func userID(r *http.Request) string { return r.Header.Get(headerUserID) }

func userRole(r *http.Request) domain.Role {
	if r.Header.Get(headerUserRole) == string(domain.RoleInspector) {
		return domain.RoleInspector
	}
	return domain.RoleUser
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain error kinds onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, domain.ErrAccessDenied):
		writeProblem(w, http.StatusForbidden, "Access Denied", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrBadTransition):
		writeProblem(w, http.StatusConflict, "Invalid Step", err.Error())
	default:
		log.Error().Err(err).Msg("internal error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON request body")
		return false
	}
	return true
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := userID(r)
	if uid == "" {
		writeProblem(w, http.StatusUnauthorized, "Missing Identity", headerUserID+" header is required")
		return "", false
	}
	return uid, true
}

// ---- inspection wizard ----

func (h *Handlers) startInspection(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		PropertyID  string `json:"property_id"`
		Name        string `json:"name"`
		HouseNumber string `json:"house_number"`
		Address     string `json:"address"`
		ServiceID   string `json:"service_id"`
	}
	if !decode(w, r, &body) {
		return
	}
	sess, err := h.Workflow.Start(r.Context(), app.StartInput{
		UserID:      uid,
		Role:        userRole(r),
		PropertyID:  body.PropertyID,
		Name:        body.Name,
		HouseNumber: body.HouseNumber,
		Address:     body.Address,
		ServiceID:   body.ServiceID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Workflow.Session(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) configureRooms(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rooms []domain.RoomSpec `json:"rooms"`
	}
	if !decode(w, r, &body) {
		return
	}
	sess, err := h.Workflow.ConfigureRooms(r.Context(), chi.URLParam(r, "sid"), body.Rooms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) advanceRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Uploads []app.Upload `json:"uploads"`
	}
	if !decode(w, r, &body) {
		return
	}
	sess, results, err := h.Workflow.AdvanceRoom(r.Context(), chi.URLParam(r, "sid"), body.Uploads)
	if err != nil && sess.ID == "" {
		writeError(w, err)
		return
	}
	// Partial write failures advance the wizard anyway; report them alongside
	// what did persist.
	resp := struct {
		Session domain.Session    `json:"session"`
		Images  []app.ImageResult `json:"images"`
		Errors  string            `json:"write_errors,omitempty"`
	}{Session: sess, Images: results}
	if err != nil {
		resp.Errors = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) processDocuments(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Documents []app.DocumentInput `json:"documents"`
	}
	if !decode(w, r, &body) {
		return
	}
	sess, err := h.Workflow.ProcessDocuments(r.Context(), chi.URLParam(r, "sid"), body.Documents)
	if err != nil && sess.ID == "" {
		writeError(w, err)
		return
	}
	resp := struct {
		Session domain.Session `json:"session"`
		Errors  string         `json:"write_errors,omitempty"`
	}{Session: sess}
	if err != nil {
		resp.Errors = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) skipDocuments(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Workflow.SkipDocuments(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// ---- property search & reports ----

func (h *Handlers) searchProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeProblem(w, http.StatusBadRequest, "Missing Query", "q parameter is required")
		return
	}
	out, err := h.Reports.Search(r.Context(), q, userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) propertyReport(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reports.PropertyReport(r.Context(), chi.URLParam(r, "id"), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) recentInspections(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	out, err := h.Reports.RecentInspections(r.Context(), uid, 3)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- access requests ----

func (h *Handlers) requestAccess(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	ar, err := h.Access.Request(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ar)
}

func (h *Handlers) pendingAccessRequests(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	out, err := h.Access.PendingForOwner(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) approveAccess(w http.ResponseWriter, r *http.Request) { h.resolveAccess(w, r, true) }
func (h *Handlers) rejectAccess(w http.ResponseWriter, r *http.Request)  { h.resolveAccess(w, r, false) }

func (h *Handlers) resolveAccess(w http.ResponseWriter, r *http.Request, approve bool) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.Access.Resolve(r.Context(), uid, chi.URLParam(r, "id"), approve); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- service requests ----

func (h *Handlers) requestService(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        string `json:"name"`
		HouseNumber string `json:"house_number"`
		Address     string `json:"address"`
	}
	if !decode(w, r, &body) {
		return
	}
	sr, err := h.Workflow.RequestInspection(r.Context(), uid, body.Name, body.HouseNumber, body.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sr)
}

func (h *Handlers) listAssignments(w http.ResponseWriter, r *http.Request) {
	if userRole(r) != domain.RoleInspector {
		writeProblem(w, http.StatusForbidden, "Access Denied", "inspector role required")
		return
	}
	out, err := h.Workflow.Assignments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- inspector review ----

func (h *Handlers) crossCheck(w http.ResponseWriter, r *http.Request) {
	if userRole(r) != domain.RoleInspector {
		writeProblem(w, http.StatusForbidden, "Access Denied", "inspector role required")
		return
	}
	cmp, err := h.Review.CrossCheck(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (h *Handlers) recordDecisions(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Decisions []app.DecisionInput `json:"decisions"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := h.Review.RecordDecisions(r.Context(), uid, body.Decisions); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) submitReport(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		ManualScore float64 `json:"manual_score"`
		Summary     string  `json:"summary"`
	}
	if !decode(w, r, &body) {
		return
	}
	rep, err := h.Review.SubmitReport(r.Context(), uid, chi.URLParam(r, "id"), body.ManualScore, body.Summary)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (h *Handlers) rateReport(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Score    int    `json:"score"`
		Feedback string `json:"feedback"`
	}
	if !decode(w, r, &body) {
		return
	}
	rt, err := h.Review.Rate(r.Context(), uid, chi.URLParam(r, "id"), body.Score, body.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

// ---- uploads ----

const maxUploadBytes = 32 << 20

// upload stores one multipart file and returns its object URL, which the
// wizard endpoints then reference.
func (h *Handlers) upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "multipart form expected")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "file field is required")
		return
	}
	defer f.Close()

	name := domain.NewID("IMG") + "-" + hdr.Filename
	url, err := h.Uploads.Put(r.Context(), name, hdr.Header.Get("Content-Type"), f, hdr.Size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"url":      url,
		"filename": hdr.Filename,
	})
}
