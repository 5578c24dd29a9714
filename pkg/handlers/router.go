package handlers

import (
	"net/http"
	"time"

	"project-mgmt-backend/pkg/authz"
	"project-mgmt-backend/pkg/config"
	"project-mgmt-backend/pkg/database"
	appmw "project-mgmt-backend/pkg/middleware"
	"project-mgmt-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the middleware chain and the full /api/v1 route table.
func NewRouter(cfg *config.Config, db database.DatabaseInterface) http.Handler {
	jwtService := utils.NewJWTService(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTExpiresIn, cfg.JWTRefreshExpires)
	policy := authz.NewPolicy(db)

	authHandler := NewAuthHandler(db, jwtService)
	orgHandler := NewOrganizationHandler(db, policy)
	projectHandler := NewProjectHandler(db, policy)
	taskHandler := NewTaskHandler(db, policy)
	commentHandler := NewCommentHandler(db, policy)
	healthHandler := NewHealthHandler(db)

	requireAuth := appmw.AuthMiddleware(jwtService, db)
	requireRefresh := appmw.RefreshAuthMiddleware(jwtService, db)
	rateLimiter := appmw.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.Debug || cfg.IsDevelopment() {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(chimw.Compress(5))
	r.Use(appmw.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(rateLimiter.Middleware)
	r.Use(appmw.MaxBodySize)
	r.Use(appmw.ContentTypeJSON)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		utils.WriteNotFoundResponse(w, req, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		utils.WriteErrorResponse(w, req, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(requireRefresh).Post("/refresh", authHandler.Refresh)
			r.With(requireAuth).Post("/logout", authHandler.Logout)
			r.With(requireAuth).Get("/profile", authHandler.Profile)
		})

		r.Route("/organizations", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", orgHandler.Create)
			r.Get("/", orgHandler.List)
			r.Route("/{orgID}", func(r chi.Router) {
				r.Get("/", orgHandler.Get)
				r.Patch("/", orgHandler.Update)
				r.Delete("/", orgHandler.Delete)
				r.Get("/members", orgHandler.GetMembers)
				r.Post("/members", orgHandler.InviteMember)
				r.Delete("/members/{userID}", orgHandler.RemoveMember)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", projectHandler.Create)
			r.Get("/", projectHandler.List)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", projectHandler.Get)
				r.Patch("/", projectHandler.Update)
				r.Delete("/", projectHandler.Delete)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.List)
			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Patch("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", commentHandler.Create)
			r.Get("/", commentHandler.List)
			r.Route("/{commentID}", func(r chi.Router) {
				r.Get("/", commentHandler.Get)
				r.Patch("/", commentHandler.Update)
				r.Delete("/", commentHandler.Delete)
			})
		})
	})

	return r
}
