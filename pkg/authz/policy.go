// Package authz centralizes the membership and ownership checks the
// handlers share. Every rule reads the membership table through the
// database interface; nothing here caches, so a removed member loses
// access on their next request.
package authz

import (
	"errors"
	"fmt"

	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/models"
)

// ErrForbidden is the sentinel all policy denials match via errors.Is.
var ErrForbidden = errors.New("forbidden")

// PolicyError carries the user-facing denial message while still
// matching ErrForbidden.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return e.Reason }

func (e *PolicyError) Is(target error) bool { return target == ErrForbidden }

func deny(reason string) error { return &PolicyError{Reason: reason} }

// Policy evaluates access rules against the store.
type Policy struct {
	db database.DatabaseInterface
}

func NewPolicy(db database.DatabaseInterface) *Policy {
	return &Policy{db: db}
}

// MemberRole returns the caller's role in the organization, or
// database.ErrNotFound if they are not a member.
func (p *Policy) MemberRole(orgID, userID string) (models.OrgRole, error) {
	m, err := p.db.GetOrganizationMember(orgID, userID)
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

func (p *Policy) IsMember(orgID, userID string) (bool, error) {
	_, err := p.MemberRole(orgID, userID)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RequireMember denies unless the user holds any role in the org.
func (p *Policy) RequireMember(orgID, userID string) error {
	ok, err := p.IsMember(orgID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return deny("You are not a member of this organization")
	}
	return nil
}

// RequireAdmin denies unless the user is an admin member. The message
// names the attempted action, e.g. "invite members".
func (p *Policy) RequireAdmin(orgID, userID, action string) error {
	role, err := p.MemberRole(orgID, userID)
	if errors.Is(err, database.ErrNotFound) {
		return deny("You are not a member of this organization")
	}
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if role != models.RoleAdmin {
		return deny("Only admins can " + action)
	}
	return nil
}

// RequireOwner denies unless the user owns the organization.
func (p *Policy) RequireOwner(org *models.Organization, userID, action string) error {
	if org.OwnerID != userID {
		return deny("Only the owner can " + action)
	}
	return nil
}

// RequireCreator denies unless the user created the resource. The
// resource name and action feed the message, e.g. "project", "delete".
func (p *Policy) RequireCreator(createdBy, userID, resource, action string) error {
	if createdBy != userID {
		return deny(fmt.Sprintf("Only the %s creator can %s it", resource, action))
	}
	return nil
}
