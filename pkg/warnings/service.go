// Package warnings runs the disciplinary workflow: issuing warnings
// against members, and the automatic removal of any member who reaches
// the warning threshold.
package warnings

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

// DefaultThreshold is the warning count at which a member is removed.
const DefaultThreshold = 3

// Service implements the warning workflow.
type Service struct {
	store     storage.Store
	audit     audit.Logger
	log       *logrus.Logger
	threshold int
}

// NewService creates a warnings service. A non-positive threshold falls
// back to DefaultThreshold.
func NewService(store storage.Store, auditLog audit.Logger, threshold int, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{store: store, audit: auditLog, log: log, threshold: threshold}
}

// IssueResult reports what issuing a warning did. MemberRemoved is set
// when the warning pushed the member to the threshold and they were
// removed from the roster.
type IssueResult struct {
	Warning       *staff.Warning `json:"warning"`
	Count         int            `json:"count"`
	MemberRemoved bool           `json:"member_removed"`
}

// Issue records a warning against a member. The insert and the count
// read are one atomic store operation, so two concurrent warnings can
// never both observe a pre-threshold count.
func (s *Service) Issue(ctx context.Context, actor *staff.Member, w *staff.Warning) (*IssueResult, error) {
	if w.Reason == "" {
		return nil, staff.NewValidationError("reason is required")
	}
	if !staff.ValidOccurrenceType(w.OccurrenceType) {
		return nil, staff.NewValidationError("unknown occurrence type: %s", w.OccurrenceType)
	}
	if w.OccurrenceDate == "" {
		return nil, staff.NewValidationError("occurrence date is required")
	}

	target, err := s.store.GetMember(ctx, w.MemberID)
	if err != nil {
		return nil, err
	}
	if err := permissions.CanManageUser(actor, target).Err(); err != nil {
		return nil, err
	}

	w.IssuedBy = actor.ID
	if w.ShiftID == nil {
		w.ShiftID = target.ShiftID
	}

	count, err := s.store.CreateWarningCounting(ctx, w)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionCreateWarning,
		ActorID:        actor.ID,
		TargetMemberID: target.ID,
		ShiftID:        w.ShiftID,
		Details:        w.Reason,
		Metadata:       map[string]interface{}{"count": count},
	})

	result := &IssueResult{Warning: w, Count: count}
	if count < s.threshold {
		return result, nil
	}

	// Threshold reached: the member leaves the roster.
	if err := s.store.DeleteMember(ctx, target.ID); err != nil && err != staff.ErrNotFound {
		return nil, fmt.Errorf("failed to remove member at warning threshold: %w", err)
	}
	result.MemberRemoved = true

	s.log.WithFields(logrus.Fields{
		"member_id": target.ID,
		"warnings":  count,
		"actor_id":  actor.ID,
	}).Warn("member removed at warning threshold")

	s.record(ctx, audit.Entry{
		Action:         audit.ActionExonerateUser,
		ActorID:        actor.ID,
		TargetMemberID: target.ID,
		ShiftID:        target.ShiftID,
		Details:        fmt.Sprintf("removed after reaching %d warnings", count),
		Metadata:       map[string]interface{}{"warnings": count},
	})
	return result, nil
}

// Get returns a single warning.
func (s *Service) Get(ctx context.Context, id string) (*staff.Warning, error) {
	return s.store.GetWarning(ctx, id)
}

// List returns every warning.
func (s *Service) List(ctx context.Context) ([]*staff.Warning, error) {
	return s.store.ListWarnings(ctx)
}

// ListByMember returns a member's warnings.
func (s *Service) ListByMember(ctx context.Context, memberID string) ([]*staff.Warning, error) {
	return s.store.ListWarningsByMember(ctx, memberID)
}

// ListByShift returns a shift's warnings.
func (s *Service) ListByShift(ctx context.Context, shiftID string) ([]*staff.Warning, error) {
	return s.store.ListWarningsByShift(ctx, shiftID)
}

// Update edits a warning's descriptive fields.
func (s *Service) Update(ctx context.Context, actor *staff.Member, id string, update staff.WarningUpdate) (*staff.Warning, error) {
	if update.OccurrenceType != nil && !staff.ValidOccurrenceType(*update.OccurrenceType) {
		return nil, staff.NewValidationError("unknown occurrence type: %s", *update.OccurrenceType)
	}

	if err := s.gate(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateWarning(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionUpdateWarning,
		ActorID:        actor.ID,
		TargetMemberID: updated.MemberID,
		ShiftID:        updated.ShiftID,
	})
	return updated, nil
}

// Delete retracts a warning. The member's live count drops with it.
func (s *Service) Delete(ctx context.Context, actor *staff.Member, id string) error {
	w, err := s.store.GetWarning(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate(ctx, actor, id); err != nil {
		return err
	}

	if err := s.store.DeleteWarning(ctx, id); err != nil {
		return err
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionDeleteWarning,
		ActorID:        actor.ID,
		TargetMemberID: w.MemberID,
		ShiftID:        w.ShiftID,
	})
	return nil
}

// gate checks that actor may manage the warned member. A warning whose
// member no longer exists is manageable by leaders and administrators.
func (s *Service) gate(ctx context.Context, actor *staff.Member, warningID string) error {
	w, err := s.store.GetWarning(ctx, warningID)
	if err != nil {
		return err
	}

	target, err := s.store.GetMember(ctx, w.MemberID)
	if err == staff.ErrNotFound {
		if actor.Role == roles.RoleLeader || actor.Role == roles.RoleAdministrator {
			return nil
		}
		return staff.NewAuthorizationError("permission denied")
	} else if err != nil {
		return err
	}
	return permissions.CanManageUser(actor, target).Err()
}

func (s *Service) record(ctx context.Context, entry audit.Entry) {
	if _, err := s.audit.Append(ctx, entry); err != nil {
		s.log.WithError(err).WithField("action", entry.Action).Warn("failed to append audit entry")
	}
}
