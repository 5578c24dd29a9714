package handlers

import (
	"net/http"

	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/utils"
)

type HealthHandler struct {
	db database.DatabaseInterface
}

func NewHealthHandler(db database.DatabaseInterface) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports liveness plus store reachability. A broken store turns
// the whole check into a 503 so load balancers rotate the instance out.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok", "database": "ok"}
	if err := h.db.HealthCheck(); err != nil {
		body["status"] = "degraded"
		body["database"] = "unreachable"
		utils.WriteJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	utils.WriteSuccessResponse(w, body)
}
