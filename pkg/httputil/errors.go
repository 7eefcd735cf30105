package httputil

import (
	"errors"
	"net/http"

	"github.com/hospital-rp/staffd/pkg/staff"
)

// WriteDomainError maps the service error taxonomy onto HTTP statuses:
// validation 400, unauthenticated 401, authorization 403, not found
// 404, chief conflict 409, everything else 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case staff.IsValidation(err):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, staff.ErrUnauthenticated):
		WriteUnauthorized(w, "authentication required")
	case staff.IsAuthorization(err):
		WriteForbidden(w, err.Error())
	case errors.Is(err, staff.ErrNotFound):
		WriteNotFound(w, "not found")
	case errors.Is(err, staff.ErrChiefConflict):
		WriteConflict(w, err.Error())
	default:
		WriteInternalError(w, err)
	}
}
