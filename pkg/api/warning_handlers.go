package api

import (
	"net/http"

	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// issueWarning handles POST /api/warnings
func (s *Server) issueWarning(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}

	var warning staff.Warning
	if !httputil.ParseJSONOrError(w, r, &warning) {
		return
	}

	result, err := s.warnings.Issue(r.Context(), actor, &warning)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.WarningsIssuedTotal.Inc()
		if result.MemberRemoved {
			s.metrics.ExonerationsTotal.WithLabelValues("threshold").Inc()
		}
	}
	if result.MemberRemoved {
		s.refreshMembersGauge(r)
	}
	httputil.WriteCreated(w, result)
}

// listWarnings handles GET /api/warnings, optionally filtered by
// member_id or shift_id
func (s *Server) listWarnings(w http.ResponseWriter, r *http.Request) {
	if memberID := httputil.ParseQueryString(r, "member_id", ""); memberID != "" {
		list, err := s.warnings.ListByMember(r.Context(), memberID)
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteSuccess(w, list)
		return
	}
	if shiftID := httputil.ParseQueryString(r, "shift_id", ""); shiftID != "" {
		list, err := s.warnings.ListByShift(r.Context(), shiftID)
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteSuccess(w, list)
		return
	}

	list, err := s.warnings.List(r.Context())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

// getWarning handles GET /api/warnings/{id}
func (s *Server) getWarning(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	warning, err := s.warnings.Get(r.Context(), id)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, warning)
}

// updateWarning handles PUT /api/warnings/{id}
func (s *Server) updateWarning(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var update staff.WarningUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}

	warning, err := s.warnings.Update(r.Context(), actor, id, update)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, warning)
}

// deleteWarning handles DELETE /api/warnings/{id}
func (s *Server) deleteWarning(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.warnings.Delete(r.Context(), actor, id); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
