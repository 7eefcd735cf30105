package api

import (
	"net/http"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/roles"
)

// queryLogs handles GET /api/logs. Administrator only: the audit log
// records every sensitive action and is itself sensitive.
func (s *Server) queryLogs(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(w, r)
	if actor == nil {
		return
	}
	if actor.Role != roles.RoleAdministrator {
		httputil.WriteForbidden(w, "audit log access requires administrator")
		return
	}

	limit, err := httputil.ParseQueryInt(r, "limit", 100)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	filter := audit.Filter{
		ActorOrTargetID: httputil.ParseQueryString(r, "member_id", ""),
		Action:          audit.Action(httputil.ParseQueryString(r, "action", "")),
		Limit:           limit,
	}
	if filter.Action != "" && !audit.ValidAction(filter.Action) {
		httputil.WriteBadRequest(w, "unknown action: "+string(filter.Action))
		return
	}

	entries, err := s.auditLog.Query(r.Context(), filter)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, entries)
}
