package roster

import (
	"context"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// CreateShift adds a shift. Leaders and administrators only.
func (s *Service) CreateShift(ctx context.Context, actor *staff.Member, sh *staff.Shift) (*staff.Shift, error) {
	if err := requireLeader(actor); err != nil {
		return nil, err
	}
	if sh.Name == "" {
		return nil, staff.NewValidationError("shift name is required")
	}

	if err := s.store.CreateShift(ctx, sh); err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionCreateShift,
		ActorID: actor.ID,
		ShiftID: &sh.ID,
		Details: "created shift " + sh.Name,
	})
	return sh, nil
}

// GetShift returns a single shift.
func (s *Service) GetShift(ctx context.Context, id string) (*staff.Shift, error) {
	return s.store.GetShift(ctx, id)
}

// ListShifts returns every shift.
func (s *Service) ListShifts(ctx context.Context) ([]*staff.Shift, error) {
	return s.store.ListShifts(ctx)
}

// UpdateShift edits a shift. Leaders and administrators may edit any
// shift; a vice-leader may edit only the shift they run.
func (s *Service) UpdateShift(ctx context.Context, actor *staff.Member, id string, update staff.ShiftUpdate) (*staff.Shift, error) {
	if actor.Role != roles.RoleLeader && actor.Role != roles.RoleAdministrator {
		sh, err := s.store.GetShift(ctx, id)
		if err != nil {
			return nil, err
		}
		if actor.Role != roles.RoleViceLeader || sh.ViceLeaderID != actor.ID {
			return nil, staff.NewAuthorizationError("permission denied")
		}
	}

	updated, err := s.store.UpdateShift(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionUpdateShift,
		ActorID: actor.ID,
		ShiftID: &id,
	})
	return updated, nil
}

// DeleteShift removes a shift. Leaders and administrators only. Members
// assigned to it become unassigned.
func (s *Service) DeleteShift(ctx context.Context, actor *staff.Member, id string) error {
	if err := requireLeader(actor); err != nil {
		return err
	}

	sh, err := s.store.GetShift(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteShift(ctx, id); err != nil {
		return err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionDeleteShift,
		ActorID: actor.ID,
		ShiftID: &id,
		Details: "deleted shift " + sh.Name,
	})
	return nil
}

// ValidatePassword checks a shift's shared password. The pseudo-shift
// "general" validates against the service-wide master password.
func (s *Service) ValidatePassword(ctx context.Context, shiftID, password string) (bool, error) {
	if password == "" {
		return false, staff.NewValidationError("password is required")
	}
	if shiftID == GeneralShiftID {
		return password == s.masterPassword, nil
	}
	return s.store.ValidateShiftPassword(ctx, shiftID, password)
}

func requireLeader(actor *staff.Member) error {
	if actor.Role == roles.RoleLeader || actor.Role == roles.RoleAdministrator {
		return nil
	}
	return staff.NewAuthorizationError("only leaders and administrators may manage shifts")
}
