package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"project-mgmt-backend/pkg/authz"
	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/middleware"
	"project-mgmt-backend/pkg/models"
	"project-mgmt-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type TaskHandler struct {
	db     database.DatabaseInterface
	policy *authz.Policy
}

func NewTaskHandler(db database.DatabaseInterface, policy *authz.Policy) *TaskHandler {
	return &TaskHandler{db: db, policy: policy}
}

// Create adds a task to a project the caller can access. Status and
// priority fall back to todo/medium when omitted.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	var req models.CreateTaskRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) < 3 {
		utils.WriteBadRequestResponse(w, r, "Task title must be at least 3 characters")
		return
	}
	if req.ProjectID == "" {
		utils.WriteBadRequestResponse(w, r, "projectId is required")
		return
	}

	status := models.StatusTodo
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			utils.WriteBadRequestResponse(w, r, "Status must be todo, in_progress or done")
			return
		}
		status = *req.Status
	}
	priority := models.PriorityMedium
	if req.Priority != nil {
		if !models.ValidTaskPriority(*req.Priority) {
			utils.WriteBadRequestResponse(w, r, "Priority must be low, medium or high")
			return
		}
		priority = *req.Priority
	}

	project, err := h.db.GetProject(req.ProjectID)
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Project not found")
		return
	}
	if err := h.policy.RequireMember(project.OrganizationID, user.ID); err != nil {
		writePolicyError(w, r, err)
		return
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		ProjectID:   req.ProjectID,
		CreatedBy:   user.ID,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	}
	if err := h.db.CreateTask(task); err != nil {
		if isDuplicate(err) {
			utils.WriteConflictResponse(w, r, "Task references a missing user")
			return
		}
		utils.WriteInternalServerErrorResponse(w, r, "Failed to create task")
		return
	}
	utils.WriteCreatedResponse(w, task)
}

// List pages through a project's tasks. Filters are ANDed together.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	q := r.URL.Query()
	projectID := q.Get("projectId")
	if projectID == "" {
		utils.WriteBadRequestResponse(w, r, "projectId query parameter is required")
		return
	}

	project, err := h.db.GetProject(projectID)
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Project not found")
		return
	}
	if err := h.policy.RequireMember(project.OrganizationID, user.ID); err != nil {
		writePolicyError(w, r, err)
		return
	}

	filter := models.TaskFilter{
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		AssignedTo: q.Get("assignedTo"),
	}
	if filter.Status != "" && !models.ValidTaskStatus(models.TaskStatus(filter.Status)) {
		utils.WriteBadRequestResponse(w, r, "Status must be todo, in_progress or done")
		return
	}
	if filter.Priority != "" && !models.ValidTaskPriority(models.TaskPriority(filter.Priority)) {
		utils.WriteBadRequestResponse(w, r, "Priority must be low, medium or high")
		return
	}

	page := parsePositiveInt(q.Get("page"), defaultPage)
	limit := parsePositiveInt(q.Get("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	tasks, total, err := h.db.ListTasksByProject(projectID, filter, page, limit)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	utils.WritePaginatedResponse(w, tasks, total, page, limit)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	if middleware.RequireUser(w, r) == nil {
		return
	}

	task, err := h.db.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Task not found")
		return
	}
	utils.WriteSuccessResponse(w, task)
}

// Update lets any member of the owning organization change the task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	task, err := h.db.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Task not found")
		return
	}
	project, err := h.db.GetProject(task.ProjectID)
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Project not found")
		return
	}
	if err := h.policy.RequireMember(project.OrganizationID, user.ID); err != nil {
		writePolicyError(w, r, err)
		return
	}

	var req models.UpdateTaskRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) < 3 {
			utils.WriteBadRequestResponse(w, r, "Task title must be at least 3 characters")
			return
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			utils.WriteBadRequestResponse(w, r, "Status must be todo, in_progress or done")
			return
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if !models.ValidTaskPriority(*req.Priority) {
			utils.WriteBadRequestResponse(w, r, "Priority must be low, medium or high")
			return
		}
		task.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		task.AssignedTo = req.AssignedTo
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := h.db.UpdateTask(task); err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to update task")
		return
	}
	utils.WriteSuccessResponse(w, task)
}

// Delete is restricted to the task creator.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	task, err := h.db.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "Task not found")
		return
	}
	if err := h.policy.RequireCreator(task.CreatedBy, user.ID, "task", "delete"); err != nil {
		writePolicyError(w, r, err)
		return
	}

	if err := h.db.DeleteTask(task.ID); err != nil {
		if isDuplicate(err) {
			utils.WriteConflictResponse(w, r, "Task still has comments")
			return
		}
		utils.WriteInternalServerErrorResponse(w, r, "Failed to delete task")
		return
	}
	utils.WriteNoContentResponse(w)
}

func parsePositiveInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
