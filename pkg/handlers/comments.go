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

type CommentHandler struct {
	db     database.DatabaseInterface
	policy *authz.Policy
}

func NewCommentHandler(db database.DatabaseInterface, policy *authz.Policy) *CommentHandler {
	return &CommentHandler{db: db, policy: policy}
}

// requireTaskAccess walks comment → task → project → org membership.
func (h *CommentHandler) requireTaskAccess(w http.ResponseWriter, r *http.Request, taskID, userID string) bool {
	task, err := h.db.GetTask(taskID)
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Task not found")
		return false
	}
	project, err := h.db.GetProject(task.ProjectID)
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Project not found")
		return false
	}
	if err := h.policy.RequireMember(project.OrganizationID, userID); err != nil {
		writePolicyError(w, r, err)
		return false
	}
	return true
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	var req models.CreateCommentRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		utils.WriteBadRequestResponse(w, r, "Comment content is required")
		return
	}
	if req.TaskID == "" {
		utils.WriteBadRequestResponse(w, r, "taskId is required")
		return
	}

	if !h.requireTaskAccess(w, r, req.TaskID, user.ID) {
		return
	}

	comment := &models.Comment{
		Content:   req.Content,
		TaskID:    req.TaskID,
		CreatedBy: user.ID,
	}
	if err := h.db.CreateComment(comment); err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to create comment")
		return
	}
	utils.WriteCreatedResponse(w, comment)
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	taskID := r.URL.Query().Get("taskId")
	if taskID == "" {
		utils.WriteBadRequestResponse(w, r, "taskId query parameter is required")
		return
	}
	if !h.requireTaskAccess(w, r, taskID, user.ID) {
		return
	}

	comments, err := h.db.ListCommentsByTask(taskID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to list comments")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	utils.WriteSuccessResponse(w, comments)
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if middleware.RequireUser(w, r) == nil {
		return
	}

	comment, err := h.db.GetComment(chi.URLParam(r, "commentID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Comment not found")
		return
	}
	utils.WriteSuccessResponse(w, comment)
}

// Update is creator-only. Org admins get no special treatment here; a
// comment belongs to whoever wrote it.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	comment, err := h.db.GetComment(chi.URLParam(r, "commentID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Comment not found")
		return
	}
	if err := h.policy.RequireCreator(comment.CreatedBy, user.ID, "comment", "update"); err != nil {
		writePolicyError(w, r, err)
		return
	}

	var req models.UpdateCommentRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		utils.WriteBadRequestResponse(w, r, "Comment content is required")
		return
	}
	comment.Content = req.Content

	if err := h.db.UpdateComment(comment); err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to update comment")
		return
	}
	utils.WriteSuccessResponse(w, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	comment, err := h.db.GetComment(chi.URLParam(r, "commentID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Comment not found")
		return
	}
	if err := h.policy.RequireCreator(comment.CreatedBy, user.ID, "comment", "delete"); err != nil {
		writePolicyError(w, r, err)
		return
	}

	if err := h.db.DeleteComment(comment.ID); err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to delete comment")
		return
	}
	utils.WriteNoContentResponse(w)
}
