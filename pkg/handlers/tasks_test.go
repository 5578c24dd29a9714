package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"project-mgmt-backend/pkg/models"
	"project-mgmt-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskDefaults(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com")
	org := env.createOrg(alice.Tokens.AccessToken, "Tech Corp")
	project := env.createProject(alice.Tokens.AccessToken, org.ID, "Website")

	task := env.createTask(alice.Tokens.AccessToken, project.ID, "Set up CI")
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, alice.User.ID, task.CreatedBy)

	// Explicit values win over defaults
	rr := env.do(http.MethodPost, "/api/v1/tasks", alice.Tokens.AccessToken, map[string]string{
		"title":      "Urgent fix",
		"project_id": project.ID,
		"status":     "in_progress",
		"priority":   "high",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	task = decode[models.Task](t, rr)
	assert.Equal(t, models.StatusInProgress, task.Status)
	assert.Equal(t, models.PriorityHigh, task.Priority)
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com")
	bob := env.register("bob@example.com")
	org := env.createOrg(alice.Tokens.AccessToken, "Tech Corp")
	project := env.createProject(alice.Tokens.AccessToken, org.ID, "Website")

	// Title under 3 characters
	rr := env.do(http.MethodPost, "/api/v1/tasks", alice.Tokens.AccessToken, map[string]string{
		"title":      "ab",
		"project_id": project.ID,
	})
	requireErrorBody(t, rr, http.StatusBadRequest)

	// Bad status value
	rr = env.do(http.MethodPost, "/api/v1/tasks", alice.Tokens.AccessToken, map[string]string{
		"title":      "Valid title",
		"project_id": project.ID,
		"status":     "blocked",
	})
	requireErrorBody(t, rr, http.StatusBadRequest)

	// Unknown project
	rr = env.do(http.MethodPost, "/api/v1/tasks", alice.Tokens.AccessToken, map[string]string{
		"title":      "Valid title",
		"project_id": "no-such-project",
	})
	requireErrorBody(t, rr, http.StatusNotFound)

	// Non-member
	rr = env.do(http.MethodPost, "/api/v1/tasks", bob.Tokens.AccessToken, map[string]string{
		"title":      "Valid title",
		"project_id": project.ID,
	})
	requireErrorBody(t, rr, http.StatusForbidden)
}

func TestListTasksFiltersAndPagination(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com")
	org := env.createOrg(alice.Tokens.AccessToken, "Tech Corp")
	project := env.createProject(alice.Tokens.AccessToken, org.ID, "Website")

	for i := 0; i < 12; i++ {
		status := "todo"
		if i < 4 {
			status = "done"
		}
		rr := env.do(http.MethodPost, "/api/v1/tasks", alice.Tokens.AccessToken, map[string]string{
			"title":      fmt.Sprintf("Task %02d", i),
			"project_id": project.ID,
			"status":     status,
		})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	type taskPage struct {
		Data []models.Task        `json:"data"`
		Meta utils.PaginationMeta `json:"meta"`
	}

	// Defaults: page 1, limit 10
	rr := env.do(http.MethodGet, "/api/v1/tasks?projectId="+project.ID, alice.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[taskPage](t, rr)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 12, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, 10, page.Meta.Limit)
	assert.Equal(t, 2, page.Meta.TotalPages)

	rr = env.do(http.MethodGet, "/api/v1/tasks?projectId="+project.ID+"&page=2", alice.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page = decode[taskPage](t, rr)
	assert.Len(t, page.Data, 2)

	rr = env.do(http.MethodGet, "/api/v1/tasks?projectId="+project.ID+"&status=done&limit=50", alice.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page = decode[taskPage](t, rr)
	assert.Equal(t, 4, page.Meta.Total)
	for _, task := range page.Data {
		assert.Equal(t, models.StatusDone, task.Status)
	}

	// Invalid pagination values fall back to defaults
	rr = env.do(http.MethodGet, "/api/v1/tasks?projectId="+project.ID+"&page=-1&limit=abc", alice.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page = decode[taskPage](t, rr)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, 10, page.Meta.Limit)

	// Bad filter value is rejected
	rr = env.do(http.MethodGet, "/api/v1/tasks?projectId="+project.ID+"&status=bogus", alice.Tokens.AccessToken, nil)
	requireErrorBody(t, rr, http.StatusBadRequest)
}

func TestListTasksAssignedToFilter(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com")
	bob := env.register("bob@example.com")
	org := env.createOrg(alice.Tokens.AccessToken, "Tech Corp")
	rr := env.invite(alice.Tokens.AccessToken, org.ID, "bob@example.com", models.RoleMember)
	require.Equal(t, http.StatusCreated, rr.Code)
	project := env.createProject(alice.Tokens.AccessToken, org.ID, "Website")

	rr = env.do(http.MethodPost, "/api/v1/tasks", alice.Tokens.AccessToken, map[string]interface{}{
		"title":       "Bobs task",
		"project_id":  project.ID,
		"assigned_to": bob.User.ID,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	env.createTask(alice.Tokens.AccessToken, project.ID, "Unassigned task")

	type taskPage struct {
		Data []models.Task        `json:"data"`
		Meta utils.PaginationMeta `json:"meta"`
	}
	rr = env.do(http.MethodGet, "/api/v1/tasks?projectId="+project.ID+"&assignedTo="+bob.User.ID, alice.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[taskPage](t, rr)
	require.Len(t, page.Data, 1)
	require.NotNil(t, page.Data[0].AssignedTo)
	assert.Equal(t, bob.User.ID, *page.Data[0].AssignedTo)
}

func TestUpdateTaskMembershipDeleteCreatorOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com")
	bob := env.register("bob@example.com")
	carol := env.register("carol@example.com")
	org := env.createOrg(alice.Tokens.AccessToken, "Tech Corp")
	rr := env.invite(alice.Tokens.AccessToken, org.ID, "bob@example.com", models.RoleMember)
	require.Equal(t, http.StatusCreated, rr.Code)
	project := env.createProject(alice.Tokens.AccessToken, org.ID, "Website")
	task := env.createTask(alice.Tokens.AccessToken, project.ID, "Set up CI")

	// Any member may update
	rr = env.do(http.MethodPatch, "/api/v1/tasks/"+task.ID, bob.Tokens.AccessToken, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[models.Task](t, rr)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, "Set up CI", updated.Title)

	// Non-member cannot update
	rr = env.do(http.MethodPatch, "/api/v1/tasks/"+task.ID, carol.Tokens.AccessToken, map[string]string{"status": "todo"})
	requireErrorBody(t, rr, http.StatusForbidden)

	// Member who is not the creator cannot delete
	rr = env.do(http.MethodDelete, "/api/v1/tasks/"+task.ID, bob.Tokens.AccessToken, nil)
	body := requireErrorBody(t, rr, http.StatusForbidden)
	assert.Equal(t, "Only the task creator can delete it", body.Message)

	rr = env.do(http.MethodDelete, "/api/v1/tasks/"+task.ID, alice.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestGetTaskByIDSkipsMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com")
	bob := env.register("bob@example.com")
	org := env.createOrg(alice.Tokens.AccessToken, "Tech Corp")
	project := env.createProject(alice.Tokens.AccessToken, org.ID, "Website")
	task := env.createTask(alice.Tokens.AccessToken, project.ID, "Set up CI")

	rr := env.do(http.MethodGet, "/api/v1/tasks/"+task.ID, bob.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodGet, "/api/v1/tasks/no-such-task", bob.Tokens.AccessToken, nil)
	requireErrorBody(t, rr, http.StatusNotFound)
}
