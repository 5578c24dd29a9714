package handlers

import (
	"errors"
	"net/http"

	"project-mgmt-backend/pkg/authz"
	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/utils"
)

func isNotFound(err error) bool  { return errors.Is(err, database.ErrNotFound) }
func isDuplicate(err error) bool { return errors.Is(err, database.ErrDuplicate) }

// writePolicyError turns an authz denial into a 403 with its message;
// anything else is a 500.
func writePolicyError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, authz.ErrForbidden) {
		utils.WriteForbiddenResponse(w, r, err.Error())
		return
	}
	utils.WriteInternalServerErrorResponse(w, r, "Failed to check permissions")
}
