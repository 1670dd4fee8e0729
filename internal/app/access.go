package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

type AccessState string

const (
	AccessAllowed     AccessState = "allowed"
	AccessPending     AccessState = "pending"
	AccessRequestable AccessState = "requestable"
)

type AccessDecision struct {
	Allowed bool        `json:"allowed"`
	State   AccessState `json:"state"`
}

// AccessService decides who may view a property's report and manages the
// owner-gated request flow for private ones.
type AccessService struct {
	props  domain.InspectionRepository
	access domain.AccessRepository
}

func NewAccessService(props domain.InspectionRepository, access domain.AccessRepository) *AccessService {
	return &AccessService{props: props, access: access}
}

// Evaluate short-circuits on public visibility and ownership before looking
// at access requests at all.
func (s *AccessService) Evaluate(ctx context.Context, propertyID, userID string) (AccessDecision, error) {
	prop, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return AccessDecision{}, err
	}
	return s.evaluate(ctx, prop, userID)
}

func (s *AccessService) evaluate(ctx context.Context, prop domain.Property, userID string) (AccessDecision, error) {
	if prop.Visibility == domain.VisibilityPublic || prop.OwnerUserID == userID {
		return AccessDecision{Allowed: true, State: AccessAllowed}, nil
	}
	ar, err := s.access.FindAccessRequest(ctx, prop.ID, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return AccessDecision{State: AccessRequestable}, nil
	case err != nil:
		return AccessDecision{}, err
	}
	switch ar.Status {
	case domain.AccessApproved:
		return AccessDecision{Allowed: true, State: AccessAllowed}, nil
	case domain.AccessPending:
		return AccessDecision{State: AccessPending}, nil
	default: // rejected: the requester may ask again
		return AccessDecision{State: AccessRequestable}, nil
	}
}

// Request files a pending access request. Idempotent: while one is pending
// the existing request is returned instead of a duplicate row.
func (s *AccessService) Request(ctx context.Context, propertyID, userID string) (domain.AccessRequest, error) {
	prop, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return domain.AccessRequest{}, err
	}
	dec, err := s.evaluate(ctx, prop, userID)
	if err != nil {
		return domain.AccessRequest{}, err
	}
	if dec.Allowed {
		return domain.AccessRequest{}, domain.Validationf("access already granted")
	}
	if dec.State == AccessPending {
		return s.access.FindAccessRequest(ctx, propertyID, userID)
	}

	ar := domain.AccessRequest{
		ID:          domain.NewID("REQ"),
		PropertyID:  propertyID,
		RequesterID: userID,
		OwnerID:     prop.OwnerUserID,
		Status:      domain.AccessPending,
	}
	if err := s.access.CreateAccessRequest(ctx, ar); err != nil {
		return domain.AccessRequest{}, fmt.Errorf("create access request: %w", err)
	}
	return ar, nil
}

// Resolve lets the property owner approve or reject a pending request.
func (s *AccessService) Resolve(ctx context.Context, ownerID, requestID string, approve bool) error {
	ar, err := s.access.GetAccessRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if ar.OwnerID != ownerID {
		return fmt.Errorf("%w: only the owner may resolve request %s", domain.ErrAccessDenied, requestID)
	}
	if ar.Status != domain.AccessPending {
		return domain.Validationf("request %s is already %s", requestID, ar.Status)
	}
	status := domain.AccessRejected
	if approve {
		status = domain.AccessApproved
	}
	return s.access.SetAccessStatus(ctx, requestID, status)
}

func (s *AccessService) PendingForOwner(ctx context.Context, ownerID string) ([]domain.AccessRequest, error) {
	return s.access.ListPendingForOwner(ctx, ownerID)
}
