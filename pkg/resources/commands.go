package resources

import (
	"context"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// CreateMeCategory adds a /me command category.
func (s *Service) CreateMeCategory(ctx context.Context, actor *staff.Member, c *staff.MeCategory) (*staff.MeCategory, error) {
	if c.Name == "" {
		return nil, staff.NewValidationError("name is required")
	}
	if c.Scope == staff.ScopeGeneral {
		c.ShiftID = nil
	}
	if err := gateScoped(actor, c.Scope, c.ShiftID); err != nil {
		return nil, err
	}

	if err := s.store.CreateMeCategory(ctx, c); err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionCreateMeCategory,
		ActorID: actor.ID,
		ShiftID: c.ShiftID,
		Details: "created category " + c.Name,
	})
	return c, nil
}

// GetMeCategory returns a single category.
func (s *Service) GetMeCategory(ctx context.Context, id string) (*staff.MeCategory, error) {
	return s.store.GetMeCategory(ctx, id)
}

// ListMeCategories returns every category.
func (s *Service) ListMeCategories(ctx context.Context) ([]*staff.MeCategory, error) {
	return s.store.ListMeCategories(ctx)
}

// UpdateMeCategory edits a category.
func (s *Service) UpdateMeCategory(ctx context.Context, actor *staff.Member, id string, update staff.MeCategoryUpdate) (*staff.MeCategory, error) {
	existing, err := s.store.GetMeCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := gateScoped(actor, existing.Scope, existing.ShiftID); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateMeCategory(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionUpdateMeCategory,
		ActorID: actor.ID,
		ShiftID: updated.ShiftID,
		Details: "updated category " + updated.Name,
	})
	return updated, nil
}

// DeleteMeCategory removes a category. Its commands survive with no
// category.
func (s *Service) DeleteMeCategory(ctx context.Context, actor *staff.Member, id string) error {
	existing, err := s.store.GetMeCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := gateScoped(actor, existing.Scope, existing.ShiftID); err != nil {
		return err
	}

	if err := s.store.DeleteMeCategory(ctx, id); err != nil {
		return err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionDeleteMeCategory,
		ActorID: actor.ID,
		ShiftID: existing.ShiftID,
		Details: "deleted category " + existing.Name,
	})
	return nil
}

// CreateMeCommand adds a /me reference command.
func (s *Service) CreateMeCommand(ctx context.Context, actor *staff.Member, c *staff.MeCommand) (*staff.MeCommand, error) {
	if c.Text == "" {
		return nil, staff.NewValidationError("text is required")
	}
	if c.Scope == staff.ScopeGeneral {
		c.ShiftID = nil
	}
	if err := gateScoped(actor, c.Scope, c.ShiftID); err != nil {
		return nil, err
	}
	if c.CategoryID != nil {
		if _, err := s.store.GetMeCategory(ctx, *c.CategoryID); err != nil {
			if err == staff.ErrNotFound {
				return nil, staff.NewValidationError("unknown category")
			}
			return nil, err
		}
	}

	if err := s.store.CreateMeCommand(ctx, c); err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionCreateMeCommand,
		ActorID: actor.ID,
		ShiftID: c.ShiftID,
	})
	return c, nil
}

// GetMeCommand returns a single command.
func (s *Service) GetMeCommand(ctx context.Context, id string) (*staff.MeCommand, error) {
	return s.store.GetMeCommand(ctx, id)
}

// ListMeCommands returns every command.
func (s *Service) ListMeCommands(ctx context.Context) ([]*staff.MeCommand, error) {
	return s.store.ListMeCommands(ctx)
}

// UpdateMeCommand edits a command.
func (s *Service) UpdateMeCommand(ctx context.Context, actor *staff.Member, id string, update staff.MeCommandUpdate) (*staff.MeCommand, error) {
	existing, err := s.store.GetMeCommand(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := gateScoped(actor, existing.Scope, existing.ShiftID); err != nil {
		return nil, err
	}
	if update.CategoryID != nil && *update.CategoryID != "" {
		if _, err := s.store.GetMeCategory(ctx, *update.CategoryID); err != nil {
			if err == staff.ErrNotFound {
				return nil, staff.NewValidationError("unknown category")
			}
			return nil, err
		}
	}

	updated, err := s.store.UpdateMeCommand(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionUpdateMeCommand,
		ActorID: actor.ID,
		ShiftID: updated.ShiftID,
	})
	return updated, nil
}

// DeleteMeCommand removes a command.
func (s *Service) DeleteMeCommand(ctx context.Context, actor *staff.Member, id string) error {
	existing, err := s.store.GetMeCommand(ctx, id)
	if err != nil {
		return err
	}
	if err := gateScoped(actor, existing.Scope, existing.ShiftID); err != nil {
		return err
	}

	if err := s.store.DeleteMeCommand(ctx, id); err != nil {
		return err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionDeleteMeCommand,
		ActorID: actor.ID,
		ShiftID: existing.ShiftID,
	})
	return nil
}
