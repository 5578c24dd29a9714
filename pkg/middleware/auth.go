package middleware

import (
	"context"
	"net/http"
	"strings"

	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/models"
	"project-mgmt-backend/pkg/utils"
)

type contextKey string

const userContextKey contextKey = "authUser"

// AuthMiddleware validates the bearer access token and loads the user
// into the request context. Requests from deactivated accounts are
// rejected here so every protected handler sees only active users.
func AuthMiddleware(jwtService *utils.JWTService, db database.DatabaseInterface) func(http.Handler) http.Handler {
	return tokenMiddleware(db, jwtService.ValidateAccessToken)
}

// RefreshAuthMiddleware is the same gate keyed on the refresh secret,
// used only by the token refresh endpoint.
func RefreshAuthMiddleware(jwtService *utils.JWTService, db database.DatabaseInterface) func(http.Handler) http.Handler {
	return tokenMiddleware(db, jwtService.ValidateRefreshToken)
}

func tokenMiddleware(db database.DatabaseInterface, validate func(string) (*models.TokenClaims, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				utils.WriteUnauthorizedResponse(w, r, "Missing or invalid authorization header")
				return
			}

			claims, err := validate(token)
			if err != nil {
				utils.WriteUnauthorizedResponse(w, r, "Invalid or expired token")
				return
			}

			user, err := db.GetUserByID(claims.UserID)
			if err != nil || !user.IsActive {
				utils.WriteUnauthorizedResponse(w, r, "Access denied")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, &models.AuthUser{
				ID:    user.ID,
				Email: user.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserFromContext returns the authenticated user, or nil outside the
// auth middleware.
func GetUserFromContext(ctx context.Context) *models.AuthUser {
	user, _ := ctx.Value(userContextKey).(*models.AuthUser)
	return user
}

// RequireUser is the handler-side guard for routes that must have a
// user even though the middleware should have supplied one.
func RequireUser(w http.ResponseWriter, r *http.Request) *models.AuthUser {
	user := GetUserFromContext(r.Context())
	if user == nil {
		utils.WriteUnauthorizedResponse(w, r, "Authentication required")
		return nil
	}
	return user
}
