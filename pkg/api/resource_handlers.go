package api

import (
	"net/http"

	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// createRule handles POST /api/rules
func (s *Server) createRule(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}

	var rule staff.Rule
	if !httputil.ParseJSONOrError(w, r, &rule) {
		return
	}

	created, err := s.resources.CreateRule(r.Context(), actor, &rule)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, created)
}

// listRules handles GET /api/rules, optionally filtered by scope or
// shift_id
func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	if shiftID := httputil.ParseQueryString(r, "shift_id", ""); shiftID != "" {
		list, err := s.resources.ListRulesByShift(r.Context(), shiftID)
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteSuccess(w, list)
		return
	}
	if scope := httputil.ParseQueryString(r, "scope", ""); scope != "" {
		list, err := s.resources.ListRulesByScope(r.Context(), staff.ResourceScope(scope))
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteSuccess(w, list)
		return
	}

	list, err := s.resources.ListRules(r.Context())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

// getRule handles GET /api/rules/{id}
func (s *Server) getRule(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	rule, err := s.resources.GetRule(r.Context(), id)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, rule)
}

// updateRule handles PUT /api/rules/{id}
func (s *Server) updateRule(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var update staff.RuleUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}

	rule, err := s.resources.UpdateRule(r.Context(), actor, id, update)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, rule)
}

// deleteRule handles DELETE /api/rules/{id}
func (s *Server) deleteRule(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.resources.DeleteRule(r.Context(), actor, id); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// createMeCategory handles POST /api/me-categories
func (s *Server) createMeCategory(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}

	var category staff.MeCategory
	if !httputil.ParseJSONOrError(w, r, &category) {
		return
	}

	created, err := s.resources.CreateMeCategory(r.Context(), actor, &category)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, created)
}

// listMeCategories handles GET /api/me-categories
func (s *Server) listMeCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.resources.ListMeCategories(r.Context())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

// updateMeCategory handles PUT /api/me-categories/{id}
func (s *Server) updateMeCategory(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var update staff.MeCategoryUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}

	category, err := s.resources.UpdateMeCategory(r.Context(), actor, id, update)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, category)
}

// deleteMeCategory handles DELETE /api/me-categories/{id}
func (s *Server) deleteMeCategory(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.resources.DeleteMeCategory(r.Context(), actor, id); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// createMeCommand handles POST /api/me-commands
func (s *Server) createMeCommand(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}

	var command staff.MeCommand
	if !httputil.ParseJSONOrError(w, r, &command) {
		return
	}

	created, err := s.resources.CreateMeCommand(r.Context(), actor, &command)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, created)
}

// listMeCommands handles GET /api/me-commands
func (s *Server) listMeCommands(w http.ResponseWriter, r *http.Request) {
	list, err := s.resources.ListMeCommands(r.Context())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

// updateMeCommand handles PUT /api/me-commands/{id}
func (s *Server) updateMeCommand(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var update staff.MeCommandUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}

	command, err := s.resources.UpdateMeCommand(r.Context(), actor, id, update)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, command)
}

// deleteMeCommand handles DELETE /api/me-commands/{id}
func (s *Server) deleteMeCommand(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.resources.DeleteMeCommand(r.Context(), actor, id); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
