package resources

import (
	"context"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/permissions"
	"github.com/hospital-rp/staffd/pkg/staff"
)

func validAttendanceStatus(status staff.AttendanceStatus) bool {
	return status == staff.AttendancePresent || status == staff.AttendanceAbsent
}

// CreateAttendance records a roll-call entry for a member on a shift.
func (s *Service) CreateAttendance(ctx context.Context, actor *staff.Member, a *staff.AttendanceRecord) (*staff.AttendanceRecord, error) {
	if a.MemberID == "" {
		return nil, staff.NewValidationError("member is required")
	}
	if a.ShiftID == "" {
		return nil, staff.NewValidationError("shift is required")
	}
	if a.Date == "" {
		return nil, staff.NewValidationError("date is required")
	}
	if !validAttendanceStatus(a.Status) {
		return nil, staff.NewValidationError("unknown status: %s", a.Status)
	}
	if err := permissions.CanManageResource(actor.Role, actor.ShiftID, staff.ScopeShift, &a.ShiftID).Err(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetMember(ctx, a.MemberID); err != nil {
		return nil, err
	}

	a.CreatedBy = actor.ID
	if err := s.store.CreateAttendance(ctx, a); err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionCreateAttendance,
		ActorID:        actor.ID,
		TargetMemberID: a.MemberID,
		ShiftID:        &a.ShiftID,
		Details:        a.Date + ": " + string(a.Status),
	})
	return a, nil
}

// GetAttendance returns a single attendance record.
func (s *Service) GetAttendance(ctx context.Context, id string) (*staff.AttendanceRecord, error) {
	return s.store.GetAttendance(ctx, id)
}

// ListAttendance returns every attendance record.
func (s *Service) ListAttendance(ctx context.Context) ([]*staff.AttendanceRecord, error) {
	return s.store.ListAttendance(ctx)
}

// ListAttendanceByShift returns a shift's attendance history.
func (s *Service) ListAttendanceByShift(ctx context.Context, shiftID string) ([]*staff.AttendanceRecord, error) {
	return s.store.ListAttendanceByShift(ctx, shiftID)
}

// ListAttendanceByShiftAndDate returns one roll call.
func (s *Service) ListAttendanceByShiftAndDate(ctx context.Context, shiftID, date string) ([]*staff.AttendanceRecord, error) {
	return s.store.ListAttendanceByShiftAndDate(ctx, shiftID, date)
}

// ListAttendanceByMember returns a member's attendance history.
func (s *Service) ListAttendanceByMember(ctx context.Context, memberID string) ([]*staff.AttendanceRecord, error) {
	return s.store.ListAttendanceByMember(ctx, memberID)
}

// UpdateAttendance edits a record's status or notes.
func (s *Service) UpdateAttendance(ctx context.Context, actor *staff.Member, id string, update staff.AttendanceUpdate) (*staff.AttendanceRecord, error) {
	if update.Status != nil && !validAttendanceStatus(*update.Status) {
		return nil, staff.NewValidationError("unknown status: %s", *update.Status)
	}

	existing, err := s.store.GetAttendance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permissions.CanManageResource(actor.Role, actor.ShiftID, staff.ScopeShift, &existing.ShiftID).Err(); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateAttendance(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionUpdateAttendance,
		ActorID:        actor.ID,
		TargetMemberID: updated.MemberID,
		ShiftID:        &updated.ShiftID,
	})
	return updated, nil
}

// DeleteAttendance removes a record.
func (s *Service) DeleteAttendance(ctx context.Context, actor *staff.Member, id string) error {
	existing, err := s.store.GetAttendance(ctx, id)
	if err != nil {
		return err
	}
	if err := permissions.CanManageResource(actor.Role, actor.ShiftID, staff.ScopeShift, &existing.ShiftID).Err(); err != nil {
		return err
	}

	if err := s.store.DeleteAttendance(ctx, id); err != nil {
		return err
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionDeleteAttendance,
		ActorID:        actor.ID,
		TargetMemberID: existing.MemberID,
		ShiftID:        &existing.ShiftID,
	})
	return nil
}
