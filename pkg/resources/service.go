// Package resources manages the shared reference records: rules, /me
// commands and their categories, sponsor covenants and attendance.
// Mutations are gated on rank and shift scope and leave audit entries;
// reads are open to any authenticated member.
package resources

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/permissions"
	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage"
)

// Service implements the shared-record workflows.
type Service struct {
	store storage.Store
	audit audit.Logger
	log   *logrus.Logger
}

// NewService creates a resources service.
func NewService(store storage.Store, auditLog audit.Logger, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: store, audit: auditLog, log: log}
}

func (s *Service) record(ctx context.Context, entry audit.Entry) {
	if _, err := s.audit.Append(ctx, entry); err != nil {
		s.log.WithError(err).WithField("action", entry.Action).Warn("failed to append audit entry")
	}
}

// gateScoped checks creation/mutation rights over a scoped record.
func gateScoped(actor *staff.Member, scope staff.ResourceScope, shiftID *string) error {
	if !staff.ValidScope(scope) {
		return staff.NewValidationError("unknown scope: %s", scope)
	}
	if scope == staff.ScopeShift && shiftID == nil {
		return staff.NewValidationError("shift-scoped records require a shift")
	}
	return permissions.CanManageResource(actor.Role, actor.ShiftID, scope, shiftID).Err()
}
