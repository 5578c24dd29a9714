package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project-mgmt-backend/pkg/config"
	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/handlers"
	"project-mgmt-backend/pkg/models"
	"project-mgmt-backend/pkg/utils"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	t  *testing.T
	h  http.Handler
	db database.DatabaseInterface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Environment:       "test",
		Port:              "0",
		JWTSecret:         "test-access-secret",
		JWTRefreshSecret:  "test-refresh-secret",
		JWTExpiresIn:      15 * time.Minute,
		JWTRefreshExpires: time.Hour,
		AllowedOrigins:    []string{"*"},
		RateLimitRequests: 10000,
		RateLimitWindow:   time.Minute,
	}
	db := database.NewMemoryDatabase()
	return &testEnv{t: t, h: handlers.NewRouter(cfg, db), db: db}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

type authBody struct {
	User   models.AuthUserProfile `json:"user"`
	Tokens models.TokenPair       `json:"tokens"`
}

// register creates an account via the API and returns its profile plus
// token pair.
func (e *testEnv) register(email string) authBody {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":      email,
		"password":   "password123",
		"first_name": "Test",
		"last_name":  "User",
	})
	require.Equal(e.t, http.StatusCreated, rr.Code, "register %s: %s", email, rr.Body.String())
	return decode[authBody](e.t, rr)
}

func (e *testEnv) createOrg(token, name string) models.Organization {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/api/v1/organizations", token, map[string]string{"name": name})
	require.Equal(e.t, http.StatusCreated, rr.Code, "create org: %s", rr.Body.String())
	return decode[models.Organization](e.t, rr)
}

func (e *testEnv) createProject(token, orgID, name string) models.Project {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/api/v1/projects", token, map[string]string{
		"name":            name,
		"organization_id": orgID,
	})
	require.Equal(e.t, http.StatusCreated, rr.Code, "create project: %s", rr.Body.String())
	return decode[models.Project](e.t, rr)
}

func (e *testEnv) createTask(token, projectID, title string) models.Task {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/api/v1/tasks", token, map[string]string{
		"title":      title,
		"project_id": projectID,
	})
	require.Equal(e.t, http.StatusCreated, rr.Code, "create task: %s", rr.Body.String())
	return decode[models.Task](e.t, rr)
}

func (e *testEnv) createComment(token, taskID, content string) models.Comment {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/api/v1/comments", token, map[string]string{
		"content": content,
		"task_id": taskID,
	})
	require.Equal(e.t, http.StatusCreated, rr.Code, "create comment: %s", rr.Body.String())
	return decode[models.Comment](e.t, rr)
}

// invite adds an existing user to the org with the given role.
func (e *testEnv) invite(token, orgID, email string, role models.OrgRole) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.do(http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/members", orgID), token, map[string]interface{}{
		"email": email,
		"role":  role,
	})
}

func requireErrorBody(t *testing.T, rr *httptest.ResponseRecorder, status int) utils.ErrorResponse {
	t.Helper()
	require.Equal(t, status, rr.Code, "body: %s", rr.Body.String())
	body := decode[utils.ErrorResponse](t, rr)
	require.Equal(t, status, body.StatusCode)
	require.NotEmpty(t, body.Timestamp)
	require.NotEmpty(t, body.Path)
	return body
}
