package handlers

import (
	"net/http"
	"strings"

	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/middleware"
	"project-mgmt-backend/pkg/models"
	"project-mgmt-backend/pkg/utils"
)

type AuthHandler struct {
	db  database.DatabaseInterface
	jwt *utils.JWTService
}

func NewAuthHandler(db database.DatabaseInterface, jwt *utils.JWTService) *AuthHandler {
	return &AuthHandler{db: db, jwt: jwt}
}

// Register creates an account and returns a token pair so the client is
// signed in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(req.Email) {
		utils.WriteBadRequestResponse(w, r, "A valid email is required")
		return
	}
	if len(req.Password) < 8 {
		utils.WriteBadRequestResponse(w, r, "Password must be at least 8 characters")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		utils.WriteBadRequestResponse(w, r, "First name and last name are required")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to process registration")
		return
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if err := h.db.CreateUser(user); err != nil {
		if isDuplicate(err) {
			utils.WriteConflictResponse(w, r, "Email already registered")
			return
		}
		utils.WriteInternalServerErrorResponse(w, r, "Failed to create user")
		return
	}

	tokens, err := h.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to issue tokens")
		return
	}

	utils.WriteCreatedResponse(w, models.AuthResponse{
		User:   profileOf(user),
		Tokens: *tokens,
	})
}

// Login verifies credentials. The inactive check runs after the
// password check so a wrong password and a deactivated account are
// indistinguishable to a caller probing for valid emails.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, r, err.Error())
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, err := h.db.GetUserByEmail(email)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, r, "Invalid credentials")
		return
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		utils.WriteUnauthorizedResponse(w, r, "Invalid credentials")
		return
	}
	if !user.IsActive {
		utils.WriteUnauthorizedResponse(w, r, "Account is deactivated")
		return
	}

	tokens, err := h.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to issue tokens")
		return
	}

	utils.WriteSuccessResponse(w, models.AuthResponse{
		User:   profileOf(user),
		Tokens: *tokens,
	})
}

// Refresh exchanges a valid refresh token for a fresh pair. The refresh
// middleware has already validated the token and the account.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(w, r)
	if user == nil {
		return
	}

	tokens, err := h.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, r, "Failed to issue tokens")
		return
	}
	utils.WriteSuccessResponse(w, tokens)
}

// Logout is stateless: tokens are not tracked server-side, so this just
// acknowledges. Clients discard their pair.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if middleware.RequireUser(w, r) == nil {
		return
	}
	utils.WriteNoContentResponse(w)
}

// Profile returns the authenticated user's own record.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	authUser := middleware.RequireUser(w, r)
	if authUser == nil {
		return
	}
	user, err := h.db.GetUserByID(authUser.ID)
	if err != nil {
		utils.WriteNotFoundResponse(w, r, "User not found")
		return
	}
	utils.WriteSuccessResponse(w, profileOf(user))
}

func profileOf(u *models.User) models.AuthUserProfile {
	return models.AuthUserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
