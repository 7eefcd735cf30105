package api

import (
	"net/http"

	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// createAttendance handles POST /api/attendance
func (s *Server) createAttendance(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}

	var record staff.AttendanceRecord
	if !httputil.ParseJSONOrError(w, r, &record) {
		return
	}

	created, err := s.resources.CreateAttendance(r.Context(), actor, &record)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, created)
}

// listAttendance handles GET /api/attendance, optionally filtered by
// shift_id (plus date) or member_id
func (s *Server) listAttendance(w http.ResponseWriter, r *http.Request) {
	shiftID := httputil.ParseQueryString(r, "shift_id", "")
	date := httputil.ParseQueryString(r, "date", "")

	switch {
	case shiftID != "" && date != "":
		list, err := s.resources.ListAttendanceByShiftAndDate(r.Context(), shiftID, date)
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteSuccess(w, list)
	case shiftID != "":
		list, err := s.resources.ListAttendanceByShift(r.Context(), shiftID)
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteSuccess(w, list)
	default:
		if memberID := httputil.ParseQueryString(r, "member_id", ""); memberID != "" {
			list, err := s.resources.ListAttendanceByMember(r.Context(), memberID)
			if err != nil {
				httputil.WriteDomainError(w, err)
				return
			}
			httputil.WriteSuccess(w, list)
			return
		}
		list, err := s.resources.ListAttendance(r.Context())
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteSuccess(w, list)
	}
}

// updateAttendance handles PUT /api/attendance/{id}
func (s *Server) updateAttendance(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var update staff.AttendanceUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}

	record, err := s.resources.UpdateAttendance(r.Context(), actor, id, update)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, record)
}

// deleteAttendance handles DELETE /api/attendance/{id}
func (s *Server) deleteAttendance(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.resources.DeleteAttendance(r.Context(), actor, id); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
