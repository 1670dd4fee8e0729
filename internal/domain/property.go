package domain

import "time"

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

type Property struct {
	ID                 string
	HouseNumber        string
	Name               string
	Address            string
	Type               string // residential|commercial
	ConstructionStatus string // existing|under_construction
	TotalRooms         int
	OwnerUserID        string
	Visibility         Visibility
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Room struct {
	ID         string
	PropertyID string
	Name       string
	Type       string // bedroom|kitchen|bathroom|living_room|utility|exterior|generic
	AreaSqft   *float64
	Floor      *int
}

// RoomSpec is a room as configured in the wizard, before it exists in the store.
type RoomSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ServiceRequestStatus string

const (
	ServiceRequested  ServiceRequestStatus = "requested"
	ServiceInProgress ServiceRequestStatus = "in_progress"
	ServiceCompleted  ServiceRequestStatus = "completed"
)

type ServiceRequest struct {
	ID          string
	PropertyID  string
	RequesterID string
	Status      ServiceRequestStatus
	RequestedAt time.Time
}

type AccessStatus string

const (
	AccessPending  AccessStatus = "pending"
	AccessApproved AccessStatus = "approved"
	AccessRejected AccessStatus = "rejected"
)

type AccessRequest struct {
	ID          string
	PropertyID  string
	RequesterID string
	OwnerID     string
	Status      AccessStatus
	RequestedAt time.Time
}
