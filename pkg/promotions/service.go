// Package promotions runs the role-change workflow: permission gating,
// the exclusive per-shift chief designation, the immutable promotion
// history and the audit trail around all of it.
package promotions

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/permissions"
	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage"
)

// Service implements the promotion workflow.
type Service struct {
	store storage.Store
	audit audit.Logger
	log   *logrus.Logger
}

// NewService creates a promotions service.
func NewService(store storage.Store, auditLog audit.Logger, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: store, audit: auditLog, log: log}
}

// Params describes a requested role change.
type Params struct {
	MemberID  string     `json:"member_id"`
	ToRole    roles.Role `json:"to_role"`
	MakeChief bool       `json:"make_chief"`
	Notes     string     `json:"notes"`
}

// Promote moves a member to a new role. Only surgeons can hold the
// chief designation, and at most one member per shift holds it: making
// someone chief displaces the shift's current chief, and promoting a
// chief to a non-surgeon role clears the flag. The role write and any
// displacement happen atomically in the store.
func (s *Service) Promote(ctx context.Context, actor *staff.Member, params Params) (*staff.Promotion, error) {
	target, err := s.store.GetMember(ctx, params.MemberID)
	if err != nil {
		return nil, err
	}

	if !roles.Valid(params.ToRole) {
		return nil, staff.NewValidationError("unknown role: %s", params.ToRole)
	}
	if params.MakeChief && params.ToRole != roles.RoleSurgeon {
		return nil, staff.NewValidationError("only surgeons can be made chief")
	}

	if actor.Role == roles.RoleViceLeader && !permissions.SameShift(actor.ShiftID, target.ShiftID) {
		return nil, staff.NewAuthorizationError("vice-leaders may only promote members of their own shift")
	}
	if !roles.CanPromoteToRole(actor.Role, params.ToRole) {
		return nil, staff.NewAuthorizationError("you may not assign this role")
	}

	makeChief := params.MakeChief && params.ToRole == roles.RoleSurgeon
	fromRole := target.Role

	result, err := s.store.ChangeRole(ctx, storage.ChangeRoleParams{
		MemberID:  params.MemberID,
		NewRole:   params.ToRole,
		MakeChief: makeChief,
	})
	if err != nil {
		return nil, err
	}

	if result.Displaced != nil {
		s.record(ctx, audit.Entry{
			Action:         audit.ActionDemoteUser,
			ActorID:        actor.ID,
			TargetMemberID: result.Displaced.ID,
			ShiftID:        target.ShiftID,
			Details:        "displaced as chief surgeon",
		})
	}
	if result.WasChief && !makeChief {
		s.record(ctx, audit.Entry{
			Action:         audit.ActionDemoteUser,
			ActorID:        actor.ID,
			TargetMemberID: target.ID,
			ShiftID:        target.ShiftID,
			Details:        "chief designation cleared on promotion to " + string(params.ToRole),
		})
	}

	promotion := &staff.Promotion{
		MemberID:  target.ID,
		ActorID:   actor.ID,
		FromRole:  fromRole,
		ToRole:    params.ToRole,
		ShiftID:   target.ShiftID,
		Notes:     params.Notes,
		MadeChief: makeChief,
		WasChief:  result.WasChief,
	}
	if err := s.store.CreatePromotion(ctx, promotion); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"member_id":  target.ID,
		"from_role":  fromRole,
		"to_role":    params.ToRole,
		"made_chief": makeChief,
		"actor_id":   actor.ID,
	}).Info("member promoted")

	details := fmt.Sprintf("promoted from %s to %s", fromRole, params.ToRole)
	if makeChief {
		details += " (chief surgeon)"
	}
	s.record(ctx, audit.Entry{
		Action:         audit.ActionPromoteUser,
		ActorID:        actor.ID,
		TargetMemberID: target.ID,
		ShiftID:        target.ShiftID,
		Details:        details,
		Metadata: map[string]interface{}{
			"make_chief": makeChief,
			"was_chief":  result.WasChief,
		},
	})
	return promotion, nil
}

// List returns the full promotion history.
func (s *Service) List(ctx context.Context) ([]*staff.Promotion, error) {
	return s.store.ListPromotions(ctx)
}

// ListByMember returns the promotion history for one member.
func (s *Service) ListByMember(ctx context.Context, memberID string) ([]*staff.Promotion, error) {
	return s.store.ListPromotionsByMember(ctx, memberID)
}

func (s *Service) record(ctx context.Context, entry audit.Entry) {
	if _, err := s.audit.Append(ctx, entry); err != nil {
		s.log.WithError(err).WithField("action", entry.Action).Warn("failed to append audit entry")
	}
}
