package api

import (
	"net/http"

	"github.com/hospital-rp/staffd/pkg/httputil"
)

type loginRequest struct {
	AccessCode string `json:"access_code"`
}

// login handles POST /api/auth/login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	member, err := s.roster.Login(r.Context(), req.AccessCode)
	if err != nil {
		if s.metrics != nil {
			s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		httputil.WriteDomainError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}
	httputil.WriteSuccess(w, member)
}

type validatePasswordRequest struct {
	ShiftID  string `json:"shift_id"`
	Password string `json:"password"`
}

type validatePasswordResponse struct {
	Valid bool `json:"valid"`
}

// validatePassword handles POST /api/auth/validate-password
func (s *Server) validatePassword(w http.ResponseWriter, r *http.Request) {
	var req validatePasswordRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	valid, err := s.roster.ValidatePassword(r.Context(), req.ShiftID, req.Password)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, validatePasswordResponse{Valid: valid})
}
