package api

import (
	"net/http"

	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// refreshMembersGauge recounts the roster after mutations so the gauge
// tracks removals from any path.
func (s *Server) refreshMembersGauge(r *http.Request) {
	if s.metrics == nil {
		return
	}
	if members, err := s.store.ListMembers(r.Context()); err == nil {
		s.metrics.MembersTotal.Set(float64(len(members)))
	}
}

// createMember handles POST /api/users
func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}

	var member staff.Member
	if !httputil.ParseJSONOrError(w, r, &member) {
		return
	}

	created, err := s.roster.CreateMember(r.Context(), actor, &member)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.refreshMembersGauge(r)
	httputil.WriteCreated(w, created)
}

// listMembers handles GET /api/users, optionally filtered by shift_id
func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	if shiftID := httputil.ParseQueryString(r, "shift_id", ""); shiftID != "" {
		members, err := s.roster.ListMembersByShift(r.Context(), shiftID)
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteSuccess(w, members)
		return
	}

	members, err := s.roster.ListMembers(r.Context())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, members)
}

// getMember handles GET /api/users/{id}
func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	member, err := s.roster.GetMember(r.Context(), id)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, member)
}

// updateMember handles PUT /api/users/{id}
func (s *Server) updateMember(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var update staff.MemberUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}

	member, err := s.roster.UpdateMember(r.Context(), actor, id, update)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, member)
}

// deleteMember handles DELETE /api/users/{id}
func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.roster.DeleteMember(r.Context(), actor, id); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.refreshMembersGauge(r)
	httputil.WriteNoContent(w)
}

type exonerateRequest struct {
	Reason string `json:"reason"`
}

// exonerateMember handles POST /api/users/{id}/exonerate
func (s *Server) exonerateMember(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req exonerateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if err := s.roster.Exonerate(r.Context(), actor, id, req.Reason); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.ExonerationsTotal.WithLabelValues("manual").Inc()
	}
	s.refreshMembersGauge(r)
	httputil.WriteNoContent(w)
}

// listMemberWarnings handles GET /api/users/{id}/warnings
func (s *Server) listMemberWarnings(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	list, err := s.warnings.ListByMember(r.Context(), id)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

// listMemberPromotions handles GET /api/users/{id}/promotions
func (s *Server) listMemberPromotions(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	list, err := s.promotions.ListByMember(r.Context(), id)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}
