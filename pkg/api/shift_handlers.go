package api

import (
	"net/http"

	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// createShift handles POST /api/shifts
func (s *Server) createShift(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}

	var shift staff.Shift
	if !httputil.ParseJSONOrError(w, r, &shift) {
		return
	}

	created, err := s.roster.CreateShift(r.Context(), actor, &shift)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, created)
}

// listShifts handles GET /api/shifts
func (s *Server) listShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := s.roster.ListShifts(r.Context())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, shifts)
}

// getShift handles GET /api/shifts/{id}
func (s *Server) getShift(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	shift, err := s.roster.GetShift(r.Context(), id)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, shift)
}

// updateShift handles PUT /api/shifts/{id}
func (s *Server) updateShift(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var update staff.ShiftUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}

	shift, err := s.roster.UpdateShift(r.Context(), actor, id, update)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, shift)
}

// deleteShift handles DELETE /api/shifts/{id}
func (s *Server) deleteShift(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.roster.DeleteShift(r.Context(), actor, id); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// listShiftMembers handles GET /api/shifts/{id}/members
func (s *Server) listShiftMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	members, err := s.roster.ListMembersByShift(r.Context(), id)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, members)
}
