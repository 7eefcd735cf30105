package resources

import (
	"context"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// CreateRule adds a rule, org-wide or shift-scoped.
func (s *Service) CreateRule(ctx context.Context, actor *staff.Member, r *staff.Rule) (*staff.Rule, error) {
	if r.Title == "" {
		return nil, staff.NewValidationError("title is required")
	}
	if r.Content == "" {
		return nil, staff.NewValidationError("content is required")
	}
	if r.Scope == staff.ScopeGeneral {
		r.ShiftID = nil
	}
	if err := gateScoped(actor, r.Scope, r.ShiftID); err != nil {
		return nil, err
	}

	if err := s.store.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionCreateRule,
		ActorID: actor.ID,
		ShiftID: r.ShiftID,
		Details: "created rule " + r.Title,
	})
	return r, nil
}

// GetRule returns a single rule.
func (s *Service) GetRule(ctx context.Context, id string) (*staff.Rule, error) {
	return s.store.GetRule(ctx, id)
}

// ListRules returns every rule.
func (s *Service) ListRules(ctx context.Context) ([]*staff.Rule, error) {
	return s.store.ListRules(ctx)
}

// ListRulesByScope returns the rules of one scope.
func (s *Service) ListRulesByScope(ctx context.Context, scope staff.ResourceScope) ([]*staff.Rule, error) {
	if !staff.ValidScope(scope) {
		return nil, staff.NewValidationError("unknown scope: %s", scope)
	}
	return s.store.ListRulesByScope(ctx, scope)
}

// ListRulesByShift returns the rules scoped to one shift.
func (s *Service) ListRulesByShift(ctx context.Context, shiftID string) ([]*staff.Rule, error) {
	return s.store.ListRulesByShift(ctx, shiftID)
}

// UpdateRule edits a rule's title or content.
func (s *Service) UpdateRule(ctx context.Context, actor *staff.Member, id string, update staff.RuleUpdate) (*staff.Rule, error) {
	existing, err := s.store.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := gateScoped(actor, existing.Scope, existing.ShiftID); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateRule(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionUpdateRule,
		ActorID: actor.ID,
		ShiftID: updated.ShiftID,
		Details: "updated rule " + updated.Title,
	})
	return updated, nil
}

// DeleteRule removes a rule.
func (s *Service) DeleteRule(ctx context.Context, actor *staff.Member, id string) error {
	existing, err := s.store.GetRule(ctx, id)
	if err != nil {
		return err
	}
	if err := gateScoped(actor, existing.Scope, existing.ShiftID); err != nil {
		return err
	}

	if err := s.store.DeleteRule(ctx, id); err != nil {
		return err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionDeleteRule,
		ActorID: actor.ID,
		ShiftID: existing.ShiftID,
		Details: "deleted rule " + existing.Title,
	})
	return nil
}
