// Package api exposes the staffd HTTP surface: authentication, roster
// and shift management, promotions, warnings, shared resources, and
// the audit log read endpoint.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/contextkeys"
	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/middleware"
	"github.com/hospital-rp/staffd/pkg/observability"
	"github.com/hospital-rp/staffd/pkg/promotions"
	"github.com/hospital-rp/staffd/pkg/resources"
	"github.com/hospital-rp/staffd/pkg/roster"
	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage"
	"github.com/hospital-rp/staffd/pkg/warnings"
)

// Deps carries everything the server needs. Metrics and Health may be
// nil; the corresponding endpoints are then not registered.
type Deps struct {
	Store      storage.Store
	Roster     *roster.Service
	Promotions *promotions.Service
	Warnings   *warnings.Service
	Resources  *resources.Service
	AuditLog   audit.Logger
	Metrics    *observability.Metrics
	Health     *observability.HealthChecker
	Log        *logrus.Logger
}

// Server represents the API server
type Server struct {
	router     *mux.Router
	store      storage.Store
	roster     *roster.Service
	promotions *promotions.Service
	warnings   *warnings.Service
	resources  *resources.Service
	auditLog   audit.Logger
	metrics    *observability.Metrics
	log        *logrus.Logger
}

// NewServer creates a new API server and sets up all routes
func NewServer(deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logrus.New()
	}

	s := &Server{
		router:     mux.NewRouter(),
		store:      deps.Store,
		roster:     deps.Roster,
		promotions: deps.Promotions,
		warnings:   deps.Warnings,
		resources:  deps.Resources,
		auditLog:   deps.AuditLog,
		metrics:    deps.Metrics,
		log:        log,
	}

	s.setupRoutes(deps)
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes(deps Deps) {
	s.router.Use(middleware.RequestIDMiddleware())
	s.router.Use(middleware.RecoveryMiddleware(s.log))
	s.router.Use(middleware.LoggingMiddleware(s.log))
	if s.metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(s.metrics))
		s.router.Handle("/metrics", observability.MetricsHandler(s.metrics.Registry())).Methods("GET")
	}
	if deps.Health != nil {
		observability.RegisterHealthRoutes(s.router, deps.Health)
	}

	// Public routes: logging in and checking a shift password need no
	// resolved actor.
	s.router.HandleFunc("/api/auth/login", s.login).Methods("POST")
	s.router.HandleFunc("/api/auth/validate-password", s.validatePassword).Methods("POST")

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ActorMiddleware(func(r *http.Request, code string) (*staff.Member, error) {
		return s.store.GetMemberByAccessCode(r.Context(), code)
	}))

	// Roster
	api.HandleFunc("/users", s.createMember).Methods("POST")
	api.HandleFunc("/users", s.listMembers).Methods("GET")
	api.HandleFunc("/users/{id}", s.getMember).Methods("GET")
	api.HandleFunc("/users/{id}", s.updateMember).Methods("PUT")
	api.HandleFunc("/users/{id}", s.deleteMember).Methods("DELETE")
	api.HandleFunc("/users/{id}/exonerate", s.exonerateMember).Methods("POST")
	api.HandleFunc("/users/{id}/warnings", s.listMemberWarnings).Methods("GET")
	api.HandleFunc("/users/{id}/promotions", s.listMemberPromotions).Methods("GET")

	// Promotions
	api.HandleFunc("/promotions", s.promote).Methods("POST")
	api.HandleFunc("/promotions", s.listPromotions).Methods("GET")

	// Warnings
	api.HandleFunc("/warnings", s.issueWarning).Methods("POST")
	api.HandleFunc("/warnings", s.listWarnings).Methods("GET")
	api.HandleFunc("/warnings/{id}", s.getWarning).Methods("GET")
	api.HandleFunc("/warnings/{id}", s.updateWarning).Methods("PUT")
	api.HandleFunc("/warnings/{id}", s.deleteWarning).Methods("DELETE")

	// Shifts
	api.HandleFunc("/shifts", s.createShift).Methods("POST")
	api.HandleFunc("/shifts", s.listShifts).Methods("GET")
	api.HandleFunc("/shifts/{id}", s.getShift).Methods("GET")
	api.HandleFunc("/shifts/{id}", s.updateShift).Methods("PUT")
	api.HandleFunc("/shifts/{id}", s.deleteShift).Methods("DELETE")
	api.HandleFunc("/shifts/{id}/members", s.listShiftMembers).Methods("GET")

	// Rules
	api.HandleFunc("/rules", s.createRule).Methods("POST")
	api.HandleFunc("/rules", s.listRules).Methods("GET")
	api.HandleFunc("/rules/{id}", s.getRule).Methods("GET")
	api.HandleFunc("/rules/{id}", s.updateRule).Methods("PUT")
	api.HandleFunc("/rules/{id}", s.deleteRule).Methods("DELETE")

	// Reference /me commands and categories
	api.HandleFunc("/me-categories", s.createMeCategory).Methods("POST")
	api.HandleFunc("/me-categories", s.listMeCategories).Methods("GET")
	api.HandleFunc("/me-categories/{id}", s.updateMeCategory).Methods("PUT")
	api.HandleFunc("/me-categories/{id}", s.deleteMeCategory).Methods("DELETE")
	api.HandleFunc("/me-commands", s.createMeCommand).Methods("POST")
	api.HandleFunc("/me-commands", s.listMeCommands).Methods("GET")
	api.HandleFunc("/me-commands/{id}", s.updateMeCommand).Methods("PUT")
	api.HandleFunc("/me-commands/{id}", s.deleteMeCommand).Methods("DELETE")

	// Covenants
	api.HandleFunc("/covenants", s.createCovenant).Methods("POST")
	api.HandleFunc("/covenants", s.listCovenants).Methods("GET")
	api.HandleFunc("/covenants/{id}", s.getCovenant).Methods("GET")
	api.HandleFunc("/covenants/{id}", s.updateCovenant).Methods("PUT")
	api.HandleFunc("/covenants/{id}", s.deleteCovenant).Methods("DELETE")
	api.HandleFunc("/covenants/{id}/extend", s.extendCovenant).Methods("POST")

	// Attendance
	api.HandleFunc("/attendance", s.createAttendance).Methods("POST")
	api.HandleFunc("/attendance", s.listAttendance).Methods("GET")
	api.HandleFunc("/attendance/{id}", s.updateAttendance).Methods("PUT")
	api.HandleFunc("/attendance/{id}", s.deleteAttendance).Methods("DELETE")

	// Audit log
	api.HandleFunc("/logs", s.queryLogs).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// actor pulls the authenticated member placed by the middleware. A nil
// return means the middleware was bypassed; treat as unauthenticated.
func (s *Server) actor(w http.ResponseWriter, r *http.Request) *staff.Member {
	actor := contextkeys.GetActor(r.Context())
	if actor == nil {
		httputil.WriteUnauthorized(w, "authentication required")
	}
	return actor
}
