// Package roster manages the member directory and the shift layout:
// login by access code, member creation and edits, removal (manual and
// exoneration), and shift CRUD with shared-password validation.
package roster

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/permissions"
	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage"
)

// GeneralShiftID is the pseudo-shift whose password checks run against
// the master password instead of a stored shift record.
const GeneralShiftID = "general"

// Service implements the roster workflows.
type Service struct {
	store          storage.Store
	audit          audit.Logger
	log            *logrus.Logger
	masterPassword string
}

// NewService creates a roster service.
func NewService(store storage.Store, auditLog audit.Logger, masterPassword string, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		store:          store,
		audit:          auditLog,
		log:            log,
		masterPassword: masterPassword,
	}
}

// record appends an audit entry. Audit failures are logged but never
// fail the operation that already succeeded.
func (s *Service) record(ctx context.Context, entry audit.Entry) {
	if _, err := s.audit.Append(ctx, entry); err != nil {
		s.log.WithError(err).WithField("action", entry.Action).Warn("failed to append audit entry")
	}
}

// Login resolves an access code to a member and records the login.
func (s *Service) Login(ctx context.Context, accessCode string) (*staff.Member, error) {
	if accessCode == "" {
		return nil, staff.NewValidationError("access code is required")
	}

	m, err := s.store.GetMemberByAccessCode(ctx, accessCode)
	if err == staff.ErrNotFound {
		return nil, staff.ErrUnauthenticated
	} else if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionLogin,
		ActorID: m.ID,
		ShiftID: m.ShiftID,
	})
	return m, nil
}

// CreateMember adds a new member to the roster. The creator's rank
// bounds the new member's rank, and vice-leaders may only hire into
// their own shift. New members never start as chief.
func (s *Service) CreateMember(ctx context.Context, actor *staff.Member, m *staff.Member) (*staff.Member, error) {
	if m.AccessCode == "" {
		return nil, staff.NewValidationError("access code is required")
	}
	if m.Name == "" {
		return nil, staff.NewValidationError("name is required")
	}
	if !roles.Valid(m.Role) {
		return nil, staff.NewValidationError("unknown role: %s", m.Role)
	}

	if !permissions.CanCreateResource(actor.Role) {
		return nil, staff.NewAuthorizationError("permission denied")
	}
	if ok, reason := roles.CanCreateUserWithRole(actor.Role, m.Role); !ok {
		return nil, staff.NewAuthorizationError(reason)
	}
	if actor.Role == roles.RoleViceLeader {
		if actor.ShiftID == nil || m.ShiftID == nil || *actor.ShiftID != *m.ShiftID {
			return nil, staff.NewAuthorizationError("vice-leaders may only create members in their own shift")
		}
	}

	m.IsChief = false
	if err := s.store.CreateMember(ctx, m); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"member_id": m.ID,
		"role":      m.Role,
		"actor_id":  actor.ID,
	}).Info("member created")

	s.record(ctx, audit.Entry{
		Action:         audit.ActionCreateUser,
		ActorID:        actor.ID,
		TargetMemberID: m.ID,
		ShiftID:        m.ShiftID,
		Details:        "created " + m.Name + " as " + string(m.Role),
	})
	return m, nil
}

// GetMember returns a single member.
func (s *Service) GetMember(ctx context.Context, id string) (*staff.Member, error) {
	return s.store.GetMember(ctx, id)
}

// ListMembers returns every member.
func (s *Service) ListMembers(ctx context.Context) ([]*staff.Member, error) {
	return s.store.ListMembers(ctx)
}

// ListMembersByShift returns the members assigned to a shift.
func (s *Service) ListMembersByShift(ctx context.Context, shiftID string) ([]*staff.Member, error) {
	return s.store.ListMembersByShift(ctx, shiftID)
}

// UpdateMember edits the non-role fields of a member. Role and chief
// changes go through the promotions service instead.
func (s *Service) UpdateMember(ctx context.Context, actor *staff.Member, id string, update staff.MemberUpdate) (*staff.Member, error) {
	target, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permissions.CanManageUser(actor, target).Err(); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateMember(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionUpdateUser,
		ActorID:        actor.ID,
		TargetMemberID: id,
		ShiftID:        updated.ShiftID,
	})
	return updated, nil
}

// DeleteMember removes a member outright. Reserved for leaders and
// administrators.
func (s *Service) DeleteMember(ctx context.Context, actor *staff.Member, id string) error {
	if actor.Role != roles.RoleLeader && actor.Role != roles.RoleAdministrator {
		return staff.NewAuthorizationError("only leaders and administrators may delete members")
	}

	target, err := s.store.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteMember(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"member_id": id,
		"actor_id":  actor.ID,
	}).Info("member deleted")

	s.record(ctx, audit.Entry{
		Action:         audit.ActionDeleteUser,
		ActorID:        actor.ID,
		TargetMemberID: id,
		ShiftID:        target.ShiftID,
		Details:        "deleted " + target.Name,
	})
	return nil
}

// Exonerate removes a member from the roster for disciplinary reasons,
// outside the automatic three-warning path.
func (s *Service) Exonerate(ctx context.Context, actor *staff.Member, id, reason string) error {
	target, err := s.store.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if err := permissions.CanManageUser(actor, target).Err(); err != nil {
		return err
	}

	if err := s.store.DeleteMember(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"member_id": id,
		"actor_id":  actor.ID,
	}).Info("member exonerated")

	s.record(ctx, audit.Entry{
		Action:         audit.ActionExonerateUser,
		ActorID:        actor.ID,
		TargetMemberID: id,
		ShiftID:        target.ShiftID,
		Details:        reason,
		Metadata:       map[string]interface{}{"manual": true},
	})
	return nil
}
