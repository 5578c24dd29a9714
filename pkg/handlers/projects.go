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

type ProjectHandler struct {
	db     database.DatabaseInterface
	policy *authz.Policy
}

func NewProjectHandler(db database.DatabaseInterface, policy *authz.Policy) *ProjectHandler {
	return &ProjectHandler{db: db, policy: policy}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	var req models.CreateProjectRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		utils.WriteBadRequestResponse(w, r, "Project name is required")
		return
	}
	if req.OrganizationID == "" {
		utils.WriteBadRequestResponse(w, r, "organizationId is required")
		return
	}

	if _, err := h.db.GetOrganization(req.OrganizationID); err != nil {
		utils.WriteNotFoundResponse(w, r, "Organization not found")
		return
	}
	if err := h.policy.RequireMember(req.OrganizationID, user.ID); err != nil {
		writePolicyError(w, r, err)
		return
	}

	project := &models.Project{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		OrganizationID: req.OrganizationID,
		CreatedBy:      user.ID,
	}
	if err := h.db.CreateProject(project); err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to create project")
		return
	}
	utils.WriteCreatedResponse(w, project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	orgID := r.URL.Query().Get("organizationId")
	if orgID == "" {
		utils.WriteBadRequestResponse(w, r, "organizationId query parameter is required")
		return
	}
	if err := h.policy.RequireMember(orgID, user.ID); err != nil {
		writePolicyError(w, r, err)
		return
	}

	projects, err := h.db.ListProjectsByOrganization(orgID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to list projects")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	utils.WriteSuccessResponse(w, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	if middleware.RequireUser(w, r) == nil {
		return
	}

	project, err := h.db.GetProject(chi.URLParam(r, "projectID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Project not found")
		return
	}
	utils.WriteSuccessResponse(w, project)
}

// Update requires membership in the project's organization; any member
// may edit, not just the creator.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	project, err := h.db.GetProject(chi.URLParam(r, "projectID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Project not found")
		return
	}
	if err := h.policy.RequireMember(project.OrganizationID, user.ID); err != nil {
		writePolicyError(w, r, err)
		return
	}

	var req models.UpdateProjectRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.WriteBadRequestResponse(w, r, "Project name cannot be empty")
			return
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	if err := h.db.UpdateProject(project); err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to update project")
		return
	}
	utils.WriteSuccessResponse(w, project)
}

// Delete is restricted to the project creator.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	project, err := h.db.GetProject(chi.URLParam(r, "projectID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Project not found")
		return
	}
	if err := h.policy.RequireCreator(project.CreatedBy, user.ID, "project", "delete"); err != nil {
		writePolicyError(w, r, err)
		return
	}

	if err := h.db.DeleteProject(project.ID); err != nil {
		if isDuplicate(err) {
			utils.WriteConflictResponse(w, r, "Project still has tasks")
			return
		}
		utils.WriteInternalServerErrorResponse(w, r, "Failed to delete project")
		return
	}
	utils.WriteNoContentResponse(w)
}
