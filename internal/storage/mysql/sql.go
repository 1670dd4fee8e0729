package mysql

const insertPropertySQL = `
INSERT INTO properties
  (property_id, house_number, property_name, address, property_type,
   construction_status, total_rooms, owner_user_id, report_visibility)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getPropertySQL = `
SELECT
  property_id, house_number, property_name, address, property_type,
  construction_status, total_rooms, owner_user_id, report_visibility,
  created_at, updated_at
FROM properties
WHERE property_id = ?
`

const findOwnedPropertySQL = `
SELECT
  property_id, house_number, property_name, address, property_type,
  construction_status, total_rooms, owner_user_id, report_visibility,
  created_at, updated_at
FROM properties
WHERE owner_user_id = ? AND house_number = ? AND address = ?
ORDER BY created_at DESC
LIMIT 1
`

// Matches name, address or house number, case-insensitively on utf8mb4_ci
// collations.
const searchPropertiesSQL = `
SELECT
  property_id, house_number, property_name, address, property_type,
  construction_status, total_rooms, owner_user_id, report_visibility,
  created_at, updated_at
FROM properties
WHERE property_name LIKE ? OR address LIKE ? OR house_number LIKE ?
ORDER BY created_at DESC
LIMIT 50
`

const listOwnedPropertiesSQL = `
SELECT
  property_id, house_number, property_name, address, property_type,
  construction_status, total_rooms, owner_user_id, report_visibility,
  created_at, updated_at
FROM properties
WHERE owner_user_id = ?
ORDER BY created_at DESC
LIMIT ?
`

const insertRoomSQL = `
INSERT INTO rooms (room_id, property_id, room_name, room_type, area_sqft, floor_number)
VALUES (?, ?, ?, ?, ?, ?)
`

const listRoomsSQL = `
SELECT room_id, property_id, room_name, room_type, area_sqft, floor_number
FROM rooms
WHERE property_id = ?
ORDER BY room_id
`

const insertImageSQL = `
INSERT INTO inspection_images
  (image_id, upload_session_id, user_id, property_id, room_id, upload_scenario,
   image_url, original_filename, ai_detected_defects, ai_confidence_score,
   ai_description, ai_severity, inspector_verified, inspector_override_notes)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertFindingSQL = `
INSERT INTO inspection_findings
  (finding_id, room_id, property_id, finding_category, finding_description,
   severity, inspector_notes, detected_by, confidence_score)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listFindingsSQL = `
SELECT
  finding_id, room_id, property_id, finding_category, finding_description,
  severity, inspector_notes, detected_by, confidence_score, finding_timestamp
FROM inspection_findings
WHERE property_id = ?
ORDER BY finding_timestamp, finding_id
`

const insertDocumentSQL = `
INSERT INTO inspection_documents
  (doc_id, property_id, user_id, filename, file_url, extracted_text,
   ai_summary, ai_suggestions)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const listDocumentsSQL = `
SELECT doc_id, property_id, user_id, filename, file_url, extracted_text,
       ai_summary, ai_suggestions, upload_date
FROM inspection_documents
WHERE property_id = ?
ORDER BY upload_date, doc_id
`

const getInspectorProfileSQL = `
SELECT inspector_id, user_id, license_number, years_experience, rating,
       total_inspections, verified_inspector
FROM inspector_profiles
WHERE user_id = ?
`

const insertDecisionSQL = `
INSERT INTO finding_decisions
  (decision_id, finding_id, inspector_id, decision, notes, corrected_severity)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const listDecisionsSQL = `
SELECT decision_id, finding_id, inspector_id, decision, notes,
       corrected_severity, decided_at
FROM finding_decisions
WHERE finding_id = ?
ORDER BY decided_at, decision_id
`

const insertReportSQL = `
INSERT INTO inspector_reports
  (report_id, property_id, inspector_id, inspection_date, manual_risk_score,
   ai_risk_score, score_variance, final_approved_score, inspector_summary, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getReportSQL = `
SELECT report_id, property_id, inspector_id, inspection_date, manual_risk_score,
       ai_risk_score, score_variance, final_approved_score, inspector_summary, status
FROM inspector_reports
WHERE report_id = ?
`

const latestReportSQL = `
SELECT report_id, property_id, inspector_id, inspection_date, manual_risk_score,
       ai_risk_score, score_variance, final_approved_score, inspector_summary, status
FROM inspector_reports
WHERE property_id = ?
ORDER BY inspection_date DESC, report_id DESC
LIMIT 1
`

const insertRatingSQL = `
INSERT INTO inspection_ratings
  (rating_id, report_id, user_id, inspector_id, rating_score, feedback)
VALUES
  (?, ?, ?, ?, ?, ?)
`

// Single statement: the AVG subquery and the counter bump cannot interleave
// with a concurrent refresh.
const refreshInspectorRatingSQL = `
UPDATE inspector_profiles
SET rating = COALESCE(
      (SELECT AVG(rating_score) FROM inspection_ratings WHERE inspector_id = ?), 0),
    total_inspections = total_inspections + 1
WHERE inspector_id = ?
`

const insertAccessRequestSQL = `
INSERT INTO access_requests
  (request_id, property_id, requester_user_id, owner_user_id, status)
VALUES
  (?, ?, ?, ?, ?)
`

const getAccessRequestSQL = `
SELECT request_id, property_id, requester_user_id, owner_user_id, status, request_date
FROM access_requests
WHERE request_id = ?
`

const findAccessRequestSQL = `
SELECT request_id, property_id, requester_user_id, owner_user_id, status, request_date
FROM access_requests
WHERE property_id = ? AND requester_user_id = ?
ORDER BY request_date DESC, request_id DESC
LIMIT 1
`

const listPendingForOwnerSQL = `
SELECT request_id, property_id, requester_user_id, owner_user_id, status, request_date
FROM access_requests
WHERE owner_user_id = ? AND status = 'pending'
ORDER BY request_date
`

const setAccessStatusSQL = `
UPDATE access_requests SET status = ? WHERE request_id = ?
`

const insertServiceRequestSQL = `
INSERT INTO inspection_service_requests
  (service_id, property_id, requester_user_id, status)
VALUES
  (?, ?, ?, ?)
`

const listServiceRequestsSQL = `
SELECT service_id, property_id, requester_user_id, status, request_date
FROM inspection_service_requests
WHERE status = ?
ORDER BY request_date
`

const setServiceStatusSQL = `
UPDATE inspection_service_requests SET status = ? WHERE service_id = ?
`

const activeServiceRequestSQL = `
SELECT service_id, property_id, requester_user_id, status, request_date
FROM inspection_service_requests
WHERE property_id = ? AND status <> 'completed'
ORDER BY request_date DESC, service_id DESC
LIMIT 1
`
