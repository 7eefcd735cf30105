package api

import (
	"net/http"

	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/promotions"
)

// promote handles POST /api/promotions
func (s *Server) promote(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}

	var params promotions.Params
	if !httputil.ParseJSONOrError(w, r, &params) {
		return
	}

	promotion, err := s.promotions.Promote(r.Context(), actor, params)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.PromotionsTotal.WithLabelValues(string(promotion.FromRole), string(promotion.ToRole)).Inc()
		if promotion.MadeChief {
			s.metrics.ChiefDesignationsTotal.Inc()
		}
	}
	httputil.WriteCreated(w, promotion)
}

// listPromotions handles GET /api/promotions, optionally filtered by
// member_id
func (s *Server) listPromotions(w http.ResponseWriter, r *http.Request) {
	if memberID := httputil.ParseQueryString(r, "member_id", ""); memberID != "" {
		list, err := s.promotions.ListByMember(r.Context(), memberID)
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteSuccess(w, list)
		return
	}

	list, err := s.promotions.List(r.Context())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}
