package domain

import "time"

type WizardStep string

const (
	StepNotStarted     WizardStep = "not_started"
	StepRoomConfig     WizardStep = "room_config"
	StepUploading      WizardStep = "uploading"
	StepDocumentUpload WizardStep = "document_upload"
	StepComplete       WizardStep = "complete"
)

type Role string

const (
	RoleUser      Role = "normal_user"
	RoleInspector Role = "inspector"
)

// Session is the durable per-session inspection context: which property is
// being inspected, where the wizard stands, and which room is next. It is
// persisted between requests rather than held as ambient global state.
type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Role         Role       `json:"role"`
	Step         WizardStep `json:"step"`
	PropertyID   string     `json:"property_id"`
	PropertyName string     `json:"property_name"`
	RoomIndex    int        `json:"room_index"`
	Rooms        []RoomSpec `json:"rooms"`
	ServiceID    string     `json:"service_id,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
}

// CurrentRoom returns the room the wizard is uploading for.
func (s *Session) CurrentRoom() (RoomSpec, bool) {
	if s.Step != StepUploading || s.RoomIndex >= len(s.Rooms) {
		return RoomSpec{}, false
	}
	return s.Rooms[s.RoomIndex], true
}
