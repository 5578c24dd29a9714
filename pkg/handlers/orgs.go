package handlers

import (
	"net/http"
	"strings"

	"project-mgmt-backend/pkg/authz"
	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/middleware"
	"project-mgmt-backend/pkg/models"
	"project-mgmt-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type OrganizationHandler struct {
	db     database.DatabaseInterface
	policy *authz.Policy
}

func NewOrganizationHandler(db database.DatabaseInterface, policy *authz.Policy) *OrganizationHandler {
	return &OrganizationHandler{db: db, policy: policy}
}

// Create makes an organization owned by the caller and seeds the owner
// as an admin member so role checks work without special-casing owners.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	var req models.CreateOrganizationRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.WriteBadRequestResponse(w, r, "Organization name is required")
		return
	}

	slug := utils.Slugify(req.Name)
	if slug == "" {
		utils.WriteBadRequestResponse(w, r, "Organization name must contain letters or digits")
		return
	}
	if _, err := h.db.GetOrganizationBySlug(slug); err == nil {
		utils.WriteConflictResponse(w, r, "An organization with this name already exists")
		return
	}

	org := &models.Organization{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		OwnerID:     user.ID,
	}
	if err := h.db.CreateOrganization(org); err != nil {
		if isDuplicate(err) {
			utils.WriteConflictResponse(w, r, "An organization with this name already exists")
			return
		}
		utils.WriteInternalServerErrorResponse(w, r, "Failed to create organization")
		return
	}

	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Role:           models.RoleAdmin,
	}
	if err := h.db.AddOrganizationMember(member); err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to seed owner membership")
		return
	}

	utils.WriteCreatedResponse(w, org)
}

// List returns the organizations the caller owns.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	orgs, err := h.db.ListOrganizationsByOwner(user.ID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to list organizations")
		return
	}
	if orgs == nil {
		orgs = []models.Organization{}
	}
	utils.WriteSuccessResponse(w, orgs)
}

func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if middleware.RequireUser(w, r) == nil {
		return
	}

	org, err := h.db.GetOrganization(chi.URLParam(r, "orgID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Organization not found")
		return
	}
	utils.WriteSuccessResponse(w, org)
}

func (h *OrganizationHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	if middleware.RequireUser(w, r) == nil {
		return
	}

	orgID := chi.URLParam(r, "orgID")
	if _, err := h.db.GetOrganization(orgID); err != nil {
		utils.WriteNotFoundResponse(w, r, "Organization not found")
		return
	}

	members, err := h.db.ListOrganizationMembers(orgID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to list members")
		return
	}
	if members == nil {
		members = []models.OrganizationMember{}
	}
	utils.WriteSuccessResponse(w, members)
}

// Update is owner-only. The slug stays what creation derived; renaming
// an organization does not move its URL.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	org, err := h.db.GetOrganization(chi.URLParam(r, "orgID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Organization not found")
		return
	}
	if err := h.policy.RequireOwner(org, user.ID, "update the organization"); err != nil {
		writePolicyError(w, r, err)
		return
	}

	var req models.UpdateOrganizationRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.WriteBadRequestResponse(w, r, "Organization name cannot be empty")
			return
		}
		org.Name = name
	}
	if req.Description != nil {
		org.Description = *req.Description
	}

	if err := h.db.UpdateOrganization(org); err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to update organization")
		return
	}
	utils.WriteSuccessResponse(w, org)
}

func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	org, err := h.db.GetOrganization(chi.URLParam(r, "orgID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Organization not found")
		return
	}
	if err := h.policy.RequireOwner(org, user.ID, "delete the organization"); err != nil {
		writePolicyError(w, r, err)
		return
	}

	if err := h.db.DeleteOrganization(org.ID); err != nil {
		// FK constraints surface when projects still reference the org
		if isDuplicate(err) {
			utils.WriteConflictResponse(w, r, "Organization still has projects")
			return
		}
		utils.WriteInternalServerErrorResponse(w, r, "Failed to delete organization")
		return
	}
	utils.WriteNoContentResponse(w)
}

// InviteMember adds an existing user to the organization by email.
// Admin-only; the invited account must already exist.
func (h *OrganizationHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	orgID := chi.URLParam(r, "orgID")
	if _, err := h.db.GetOrganization(orgID); err != nil {
		utils.WriteNotFoundResponse(w, r, "Organization not found")
		return
	}
	if err := h.policy.RequireAdmin(orgID, user.ID, "invite members"); err != nil {
		writePolicyError(w, r, err)
		return
	}

	var req models.InviteMemberRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}
	if !models.ValidOrgRole(req.Role) {
		utils.WriteBadRequestResponse(w, r, "Role must be admin, member or viewer")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	invitee, err := h.db.GetUserByEmail(email)
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "User with this email not found")
		return
	}

	member := &models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         invitee.ID,
		Role:           req.Role,
	}
	if err := h.db.AddOrganizationMember(member); err != nil {
		if isDuplicate(err) {
			utils.WriteConflictResponse(w, r, "User is already a member of this organization")
			return
		}
		utils.WriteInternalServerErrorResponse(w, r, "Failed to add member")
		return
	}

	utils.WriteCreatedResponse(w, member)
}

// RemoveMember is owner-only. Removing a user with no membership
// succeeds with 204, and the owner cannot remove themselves.
func (h *OrganizationHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	org, err := h.db.GetOrganization(chi.URLParam(r, "orgID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Organization not found")
		return
	}
	if err := h.policy.RequireOwner(org, user.ID, "remove members"); err != nil {
		writePolicyError(w, r, err)
		return
	}

	targetID := chi.URLParam(r, "userID")
	if targetID == user.ID {
		utils.WriteForbiddenResponse(w, r, "Owner cannot remove themselves")
		return
	}

	if err := h.db.RemoveOrganizationMember(org.ID, targetID); err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to remove member")
		return
	}
	utils.WriteNoContentResponse(w)
}
