package handlers_test

import (
	"net/http"
	"testing"

	"project-mgmt-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterReturnsTokensAndProfile(t *testing.T) {
	env := newTestEnv(t)

	body := env.register("alice@example.com")
	assert.Equal(t, "alice@example.com", body.User.Email)
	assert.NotEmpty(t, body.User.ID)
	assert.NotEmpty(t, body.Tokens.AccessToken)
	assert.NotEmpty(t, body.Tokens.RefreshToken)

	// Password never appears in any response
	rr := env.do(http.MethodGet, "/api/v1/auth/profile", body.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice@example.com")

	rr := env.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":      "alice@example.com",
		"password":   "password123",
		"first_name": "Other",
		"last_name":  "User",
	})
	requireErrorBody(t, rr, http.StatusConflict)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "nope", "password": "password123", "first_name": "A", "last_name": "B"}},
		{"short password", map[string]string{"email": "a@b.com", "password": "short", "first_name": "A", "last_name": "B"}},
		{"missing names", map[string]string{"email": "a@b.com", "password": "password123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(http.MethodPost, "/api/v1/auth/register", "", tc.body)
			requireErrorBody(t, rr, http.StatusBadRequest)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice@example.com")

	rr := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[authBody](t, rr)
	assert.NotEmpty(t, body.Tokens.AccessToken)

	rr = env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	requireErrorBody(t, rr, http.StatusUnauthorized)

	rr = env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	requireErrorBody(t, rr, http.StatusUnauthorized)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register("alice@example.com")

	user, err := env.db.GetUserByID(reg.User.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, env.db.UpdateUser(user))

	// Correct password on a deactivated account still yields 401
	rr := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	body := requireErrorBody(t, rr, http.StatusUnauthorized)
	assert.Equal(t, "Account is deactivated", body.Message)
}

func TestDeactivatedTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register("alice@example.com")

	user, err := env.db.GetUserByID(reg.User.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, env.db.UpdateUser(user))

	// Tokens issued before deactivation stop working
	rr := env.do(http.MethodGet, "/api/v1/auth/profile", reg.Tokens.AccessToken, nil)
	requireErrorBody(t, rr, http.StatusUnauthorized)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register("alice@example.com")

	rr := env.do(http.MethodPost, "/api/v1/auth/refresh", reg.Tokens.RefreshToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	pair := decode[models.TokenPair](t, rr)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// An access token is not accepted on the refresh endpoint
	rr = env.do(http.MethodPost, "/api/v1/auth/refresh", reg.Tokens.AccessToken, nil)
	requireErrorBody(t, rr, http.StatusUnauthorized)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register("alice@example.com")

	rr := env.do(http.MethodPost, "/api/v1/auth/logout", reg.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = env.do(http.MethodPost, "/api/v1/auth/logout", "", nil)
	requireErrorBody(t, rr, http.StatusUnauthorized)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/organizations", "/api/v1/projects?organizationId=x", "/api/v1/tasks?projectId=x", "/api/v1/comments?taskId=x"} {
		rr := env.do(http.MethodGet, path, "", nil)
		requireErrorBody(t, rr, http.StatusUnauthorized)
	}

	rr := env.do(http.MethodGet, "/api/v1/organizations", "garbage-token", nil)
	requireErrorBody(t, rr, http.StatusUnauthorized)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(http.MethodGet, "/api/v1/nonsense", "", nil)
	body := requireErrorBody(t, rr, http.StatusNotFound)
	assert.Equal(t, "/api/v1/nonsense", body.Path)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]string](t, rr)
	assert.Equal(t, "ok", body["status"])
}
