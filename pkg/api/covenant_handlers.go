package api

import (
	"net/http"

	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/staff"
)

type createCovenantRequest struct {
	OrganizationName string  `json:"organization_name"`
	AmountPaid       float64 `json:"amount_paid"`
}

// createCovenant handles POST /api/covenants
func (s *Server) createCovenant(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}

	var req createCovenantRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	covenant, err := s.resources.CreateCovenant(r.Context(), actor, req.OrganizationName, req.AmountPaid)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, covenant)
}

// listCovenants handles GET /api/covenants
func (s *Server) listCovenants(w http.ResponseWriter, r *http.Request) {
	list, err := s.resources.ListCovenants(r.Context())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

// getCovenant handles GET /api/covenants/{id}
func (s *Server) getCovenant(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	covenant, err := s.resources.GetCovenant(r.Context(), id)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, covenant)
}

type extendCovenantRequest struct {
	AdditionalAmount float64 `json:"additional_amount"`
}

// extendCovenant handles POST /api/covenants/{id}/extend
func (s *Server) extendCovenant(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req extendCovenantRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	covenant, err := s.resources.ExtendCovenant(r.Context(), actor, id, req.AdditionalAmount)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, covenant)
}

// updateCovenant handles PUT /api/covenants/{id}
func (s *Server) updateCovenant(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var update staff.CovenantUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}

	covenant, err := s.resources.UpdateCovenant(r.Context(), actor, id, update)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, covenant)
}

// deleteCovenant handles DELETE /api/covenants/{id}
func (s *Server) deleteCovenant(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.resources.DeleteCovenant(r.Context(), actor, id); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
