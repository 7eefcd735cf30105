package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/permissions"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// Payment-to-duration conversion for covenants: 4000 buys 30 days.
const (
	covenantCostPerMonth = 4000.0
	covenantDaysPerMonth = 30.0
	secondsPerDay        = 86400
)

// covenantSeconds converts a paid amount into covered seconds.
func covenantSeconds(amount float64) int64 {
	days := amount / covenantCostPerMonth * covenantDaysPerMonth
	return int64(days * secondsPerDay)
}

// CreateCovenant opens a covenant. Its window starts now and its length
// derives from the amount paid.
func (s *Service) CreateCovenant(ctx context.Context, actor *staff.Member, organizationName string, amountPaid float64) (*staff.Covenant, error) {
	if organizationName == "" {
		return nil, staff.NewValidationError("organization name is required")
	}
	if amountPaid <= 0 {
		return nil, staff.NewValidationError("amount paid must be positive")
	}
	if !permissions.CanCreateResource(actor.Role) {
		return nil, staff.NewAuthorizationError("permission denied")
	}

	now := time.Now().UTC()
	total := covenantSeconds(amountPaid)
	c := &staff.Covenant{
		OrganizationName: organizationName,
		AmountPaid:       amountPaid,
		StartDate:        now,
		EndDate:          now.Add(time.Duration(total) * time.Second),
		TotalSeconds:     total,
	}
	if err := s.store.CreateCovenant(ctx, c); err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionCreateCovenant,
		ActorID: actor.ID,
		Details: "created covenant " + c.OrganizationName,
	})
	return c, nil
}

// GetCovenant returns a single covenant.
func (s *Service) GetCovenant(ctx context.Context, id string) (*staff.Covenant, error) {
	return s.store.GetCovenant(ctx, id)
}

// ListCovenants returns every covenant.
func (s *Service) ListCovenants(ctx context.Context) ([]*staff.Covenant, error) {
	return s.store.ListCovenants(ctx)
}

// ExtendCovenant adds a payment to a covenant. Remaining time carries
// over: the new window runs from now for the unexpired remainder plus
// the purchased extension. An expired covenant restarts from now.
func (s *Service) ExtendCovenant(ctx context.Context, actor *staff.Member, id string, additionalAmount float64) (*staff.Covenant, error) {
	if additionalAmount <= 0 {
		return nil, staff.NewValidationError("additional amount must be positive")
	}
	if !permissions.CanCreateResource(actor.Role) {
		return nil, staff.NewAuthorizationError("permission denied")
	}

	existing, err := s.store.GetCovenant(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	remaining := int64(existing.EndDate.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	total := remaining + covenantSeconds(additionalAmount)
	newEnd := now.Add(time.Duration(total) * time.Second)
	newAmount := existing.AmountPaid + additionalAmount

	updated, err := s.store.UpdateCovenant(ctx, id, staff.CovenantUpdate{
		AmountPaid:   &newAmount,
		EndDate:      &newEnd,
		TotalSeconds: &total,
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionUpdateCovenant,
		ActorID: actor.ID,
		Details: fmt.Sprintf("covenant %s extended: %.2f added", updated.OrganizationName, additionalAmount),
	})
	return updated, nil
}

// UpdateCovenant edits a covenant's fields directly, without the
// extension arithmetic.
func (s *Service) UpdateCovenant(ctx context.Context, actor *staff.Member, id string, update staff.CovenantUpdate) (*staff.Covenant, error) {
	if !permissions.CanCreateResource(actor.Role) {
		return nil, staff.NewAuthorizationError("permission denied")
	}

	updated, err := s.store.UpdateCovenant(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionUpdateCovenant,
		ActorID: actor.ID,
		Details: "covenant updated: " + updated.OrganizationName,
	})
	return updated, nil
}

// DeleteCovenant removes a covenant.
func (s *Service) DeleteCovenant(ctx context.Context, actor *staff.Member, id string) error {
	if !permissions.CanCreateResource(actor.Role) {
		return staff.NewAuthorizationError("permission denied")
	}

	existing, err := s.store.GetCovenant(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCovenant(ctx, id); err != nil {
		return err
	}

	s.record(ctx, audit.Entry{
		Action:  audit.ActionDeleteCovenant,
		ActorID: actor.ID,
		Details: "deleted covenant " + existing.OrganizationName,
	})
	return nil
}
