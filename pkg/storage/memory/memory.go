// Package memory implements storage.Store entirely in process memory.
// A single mutex guards every operation, which makes the compound
// operations (ChangeRole, CreateWarningCounting) naturally atomic.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage"
)

// Store is the in-memory storage.Store implementation.
type Store struct {
	mu sync.RWMutex

	members      map[string]*staff.Member
	shifts       map[string]*staff.Shift
	warnings     map[string]*staff.Warning
	promotions   map[string]*staff.Promotion
	rules        map[string]*staff.Rule
	meCategories map[string]*staff.MeCategory
	meCommands   map[string]*staff.MeCommand
	covenants    map[string]*staff.Covenant
	attendance   map[string]*staff.AttendanceRecord
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		members:      make(map[string]*staff.Member),
		shifts:       make(map[string]*staff.Shift),
		warnings:     make(map[string]*staff.Warning),
		promotions:   make(map[string]*staff.Promotion),
		rules:        make(map[string]*staff.Rule),
		meCategories: make(map[string]*staff.MeCategory),
		meCommands:   make(map[string]*staff.MeCommand),
		covenants:    make(map[string]*staff.Covenant),
		attendance:   make(map[string]*staff.AttendanceRecord),
	}
}

// --- members ---

func (s *Store) CreateMember(ctx context.Context, m *staff.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.members {
		if existing.AccessCode == m.AccessCode {
			return fmt.Errorf("access code already in use")
		}
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	stored := *m
	s.members[m.ID] = &stored
	return nil
}

func (s *Store) GetMember(ctx context.Context, id string) (*staff.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMemberLocked(id)
}

func (s *Store) getMemberLocked(id string) (*staff.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *Store) GetMemberByAccessCode(ctx context.Context, accessCode string) (*staff.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.members {
		if m.AccessCode == accessCode {
			copied := *m
			return &copied, nil
		}
	}
	return nil, staff.ErrNotFound
}

func (s *Store) ListMembers(ctx context.Context) ([]*staff.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*staff.Member, 0, len(s.members))
	for _, m := range s.members {
		copied := *m
		out = append(out, &copied)
	}
	sortByCreated(out, func(m *staff.Member) time.Time { return m.CreatedAt }, func(m *staff.Member) string { return m.ID })
	return out, nil
}

func (s *Store) ListMembersByShift(ctx context.Context, shiftID string) ([]*staff.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*staff.Member
	for _, m := range s.members {
		if m.ShiftID != nil && *m.ShiftID == shiftID {
			copied := *m
			out = append(out, &copied)
		}
	}
	sortByCreated(out, func(m *staff.Member) time.Time { return m.CreatedAt }, func(m *staff.Member) string { return m.ID })
	return out, nil
}

func (s *Store) UpdateMember(ctx context.Context, id string, update staff.MemberUpdate) (*staff.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return nil, staff.ErrNotFound
	}

	if update.AccessCode != nil {
		for otherID, other := range s.members {
			if otherID != id && other.AccessCode == *update.AccessCode {
				return nil, fmt.Errorf("access code already in use")
			}
		}
		m.AccessCode = *update.AccessCode
	}
	if update.Name != nil {
		m.Name = *update.Name
	}
	if update.ShiftID != nil {
		if *update.ShiftID == "" {
			m.ShiftID = nil
		} else {
			shiftID := *update.ShiftID
			m.ShiftID = &shiftID
		}
	}
	if update.CharName != nil {
		m.CharName = *update.CharName
	}
	if update.Phone != nil {
		m.Phone = *update.Phone
	}
	m.UpdatedAt = time.Now().UTC()

	copied := *m
	return &copied, nil
}

func (s *Store) DeleteMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return staff.ErrNotFound
	}
	delete(s.members, id)
	// Warnings go with the member, matching the SQL cascade.
	for wid, w := range s.warnings {
		if w.MemberID == id {
			delete(s.warnings, wid)
		}
	}
	return nil
}

func (s *Store) ChangeRole(ctx context.Context, params storage.ChangeRoleParams) (*storage.RoleChangeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[params.MemberID]
	if !ok {
		return nil, staff.ErrNotFound
	}

	result := &storage.RoleChangeResult{WasChief: m.IsChief}

	if params.MakeChief && m.ShiftID != nil {
		var chiefs []*staff.Member
		for _, other := range s.members {
			if other.ID == m.ID {
				continue
			}
			if other.IsChief && other.ShiftID != nil && *other.ShiftID == *m.ShiftID {
				chiefs = append(chiefs, other)
			}
		}
		if len(chiefs) > 1 {
			return nil, staff.ErrChiefConflict
		}
		if len(chiefs) == 1 {
			chiefs[0].IsChief = false
			chiefs[0].UpdatedAt = time.Now().UTC()
			displaced := *chiefs[0]
			result.Displaced = &displaced
		}
	}

	m.Role = params.NewRole
	m.IsChief = params.MakeChief
	m.UpdatedAt = time.Now().UTC()

	updated := *m
	result.Member = &updated
	return result, nil
}

// --- shifts ---

func (s *Store) CreateShift(ctx context.Context, sh *staff.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	sh.CreatedAt = time.Now().UTC()

	stored := *sh
	s.shifts[sh.ID] = &stored
	return nil
}

func (s *Store) GetShift(ctx context.Context, id string) (*staff.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shifts[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	copied := *sh
	return &copied, nil
}

func (s *Store) ListShifts(ctx context.Context) ([]*staff.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*staff.Shift, 0, len(s.shifts))
	for _, sh := range s.shifts {
		copied := *sh
		out = append(out, &copied)
	}
	sortByCreated(out, func(sh *staff.Shift) time.Time { return sh.CreatedAt }, func(sh *staff.Shift) string { return sh.ID })
	return out, nil
}

func (s *Store) UpdateShift(ctx context.Context, id string, update staff.ShiftUpdate) (*staff.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.shifts[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	if update.Name != nil {
		sh.Name = *update.Name
	}
	if update.ViceLeaderID != nil {
		sh.ViceLeaderID = *update.ViceLeaderID
	}
	if update.Password != nil {
		sh.Password = *update.Password
	}
	copied := *sh
	return &copied, nil
}

func (s *Store) DeleteShift(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shifts[id]; !ok {
		return staff.ErrNotFound
	}
	delete(s.shifts, id)
	return nil
}

func (s *Store) ValidateShiftPassword(ctx context.Context, shiftID, password string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shifts[shiftID]
	if !ok {
		return false, staff.ErrNotFound
	}
	return sh.Password == password, nil
}

// --- warnings ---

func (s *Store) CreateWarningCounting(ctx context.Context, w *staff.Warning) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[w.MemberID]; !ok {
		return 0, staff.ErrNotFound
	}

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	w.CreatedAt = time.Now().UTC()

	stored := *w
	s.warnings[w.ID] = &stored

	count := 0
	for _, existing := range s.warnings {
		if existing.MemberID == w.MemberID {
			count++
		}
	}
	return count, nil
}

func (s *Store) GetWarning(ctx context.Context, id string) (*staff.Warning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.warnings[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (s *Store) ListWarnings(ctx context.Context) ([]*staff.Warning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterWarnings(func(*staff.Warning) bool { return true }), nil
}

func (s *Store) ListWarningsByMember(ctx context.Context, memberID string) ([]*staff.Warning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterWarnings(func(w *staff.Warning) bool { return w.MemberID == memberID }), nil
}

func (s *Store) ListWarningsByShift(ctx context.Context, shiftID string) ([]*staff.Warning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterWarnings(func(w *staff.Warning) bool {
		return w.ShiftID != nil && *w.ShiftID == shiftID
	}), nil
}

func (s *Store) filterWarnings(keep func(*staff.Warning) bool) []*staff.Warning {
	var out []*staff.Warning
	for _, w := range s.warnings {
		if keep(w) {
			copied := *w
			out = append(out, &copied)
		}
	}
	sortByCreated(out, func(w *staff.Warning) time.Time { return w.CreatedAt }, func(w *staff.Warning) string { return w.ID })
	return out
}

func (s *Store) UpdateWarning(ctx context.Context, id string, update staff.WarningUpdate) (*staff.Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.warnings[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	if update.Reason != nil {
		w.Reason = *update.Reason
	}
	if update.OccurrenceType != nil {
		w.OccurrenceType = *update.OccurrenceType
	}
	if update.OccurrenceDate != nil {
		w.OccurrenceDate = *update.OccurrenceDate
	}
	if update.Notes != nil {
		w.Notes = *update.Notes
	}
	copied := *w
	return &copied, nil
}

func (s *Store) DeleteWarning(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.warnings[id]; !ok {
		return staff.ErrNotFound
	}
	delete(s.warnings, id)
	return nil
}

// --- promotions ---

func (s *Store) CreatePromotion(ctx context.Context, p *staff.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	stored := *p
	s.promotions[p.ID] = &stored
	return nil
}

func (s *Store) ListPromotions(ctx context.Context) ([]*staff.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterPromotions(func(*staff.Promotion) bool { return true }), nil
}

func (s *Store) ListPromotionsByMember(ctx context.Context, memberID string) ([]*staff.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterPromotions(func(p *staff.Promotion) bool { return p.MemberID == memberID }), nil
}

func (s *Store) filterPromotions(keep func(*staff.Promotion) bool) []*staff.Promotion {
	var out []*staff.Promotion
	for _, p := range s.promotions {
		if keep(p) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sortByCreated(out, func(p *staff.Promotion) time.Time { return p.CreatedAt }, func(p *staff.Promotion) string { return p.ID })
	return out
}

// --- rules ---

func (s *Store) CreateRule(ctx context.Context, r *staff.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	stored := *r
	s.rules[r.ID] = &stored
	return nil
}

func (s *Store) GetRule(ctx context.Context, id string) (*staff.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *Store) ListRules(ctx context.Context) ([]*staff.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterRules(func(*staff.Rule) bool { return true }), nil
}

func (s *Store) ListRulesByScope(ctx context.Context, scope staff.ResourceScope) ([]*staff.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterRules(func(r *staff.Rule) bool { return r.Scope == scope }), nil
}

func (s *Store) ListRulesByShift(ctx context.Context, shiftID string) ([]*staff.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterRules(func(r *staff.Rule) bool {
		return r.ShiftID != nil && *r.ShiftID == shiftID
	}), nil
}

func (s *Store) filterRules(keep func(*staff.Rule) bool) []*staff.Rule {
	var out []*staff.Rule
	for _, r := range s.rules {
		if keep(r) {
			copied := *r
			out = append(out, &copied)
		}
	}
	sortByCreated(out, func(r *staff.Rule) time.Time { return r.CreatedAt }, func(r *staff.Rule) string { return r.ID })
	return out
}

func (s *Store) UpdateRule(ctx context.Context, id string, update staff.RuleUpdate) (*staff.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	if update.Title != nil {
		r.Title = *update.Title
	}
	if update.Content != nil {
		r.Content = *update.Content
	}
	r.UpdatedAt = time.Now().UTC()

	copied := *r
	return &copied, nil
}

func (s *Store) DeleteRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return staff.ErrNotFound
	}
	delete(s.rules, id)
	return nil
}

// --- /me categories ---

func (s *Store) CreateMeCategory(ctx context.Context, c *staff.MeCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	stored := *c
	s.meCategories[c.ID] = &stored
	return nil
}

func (s *Store) GetMeCategory(ctx context.Context, id string) (*staff.MeCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.meCategories[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *Store) ListMeCategories(ctx context.Context) ([]*staff.MeCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*staff.MeCategory, 0, len(s.meCategories))
	for _, c := range s.meCategories {
		copied := *c
		out = append(out, &copied)
	}
	sortByCreated(out, func(c *staff.MeCategory) time.Time { return c.CreatedAt }, func(c *staff.MeCategory) string { return c.ID })
	return out, nil
}

func (s *Store) UpdateMeCategory(ctx context.Context, id string, update staff.MeCategoryUpdate) (*staff.MeCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.meCategories[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	if update.Name != nil {
		c.Name = *update.Name
	}
	if update.Description != nil {
		c.Description = *update.Description
	}
	copied := *c
	return &copied, nil
}

func (s *Store) DeleteMeCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meCategories[id]; !ok {
		return staff.ErrNotFound
	}
	delete(s.meCategories, id)
	return nil
}

// --- /me commands ---

func (s *Store) CreateMeCommand(ctx context.Context, c *staff.MeCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	stored := *c
	s.meCommands[c.ID] = &stored
	return nil
}

func (s *Store) GetMeCommand(ctx context.Context, id string) (*staff.MeCommand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.meCommands[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *Store) ListMeCommands(ctx context.Context) ([]*staff.MeCommand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*staff.MeCommand, 0, len(s.meCommands))
	for _, c := range s.meCommands {
		copied := *c
		out = append(out, &copied)
	}
	sortByCreated(out, func(c *staff.MeCommand) time.Time { return c.CreatedAt }, func(c *staff.MeCommand) string { return c.ID })
	return out, nil
}

func (s *Store) UpdateMeCommand(ctx context.Context, id string, update staff.MeCommandUpdate) (*staff.MeCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.meCommands[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	if update.Text != nil {
		c.Text = *update.Text
	}
	if update.CategoryID != nil {
		if *update.CategoryID == "" {
			c.CategoryID = nil
		} else {
			categoryID := *update.CategoryID
			c.CategoryID = &categoryID
		}
	}
	copied := *c
	return &copied, nil
}

func (s *Store) DeleteMeCommand(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meCommands[id]; !ok {
		return staff.ErrNotFound
	}
	delete(s.meCommands, id)
	return nil
}

// --- covenants ---

func (s *Store) CreateCovenant(ctx context.Context, c *staff.Covenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	stored := *c
	s.covenants[c.ID] = &stored
	return nil
}

func (s *Store) GetCovenant(ctx context.Context, id string) (*staff.Covenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.covenants[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *Store) ListCovenants(ctx context.Context) ([]*staff.Covenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*staff.Covenant, 0, len(s.covenants))
	for _, c := range s.covenants {
		copied := *c
		out = append(out, &copied)
	}
	sortByCreated(out, func(c *staff.Covenant) time.Time { return c.CreatedAt }, func(c *staff.Covenant) string { return c.ID })
	return out, nil
}

func (s *Store) UpdateCovenant(ctx context.Context, id string, update staff.CovenantUpdate) (*staff.Covenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.covenants[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	if update.OrganizationName != nil {
		c.OrganizationName = *update.OrganizationName
	}
	if update.AmountPaid != nil {
		c.AmountPaid = *update.AmountPaid
	}
	if update.EndDate != nil {
		c.EndDate = *update.EndDate
	}
	if update.TotalSeconds != nil {
		c.TotalSeconds = *update.TotalSeconds
	}
	copied := *c
	return &copied, nil
}

func (s *Store) DeleteCovenant(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.covenants[id]; !ok {
		return staff.ErrNotFound
	}
	delete(s.covenants, id)
	return nil
}

// --- attendance ---

func (s *Store) CreateAttendance(ctx context.Context, a *staff.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	stored := *a
	s.attendance[a.ID] = &stored
	return nil
}

func (s *Store) GetAttendance(ctx context.Context, id string) (*staff.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.attendance[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *Store) ListAttendance(ctx context.Context) ([]*staff.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterAttendance(func(*staff.AttendanceRecord) bool { return true }), nil
}

func (s *Store) ListAttendanceByShift(ctx context.Context, shiftID string) ([]*staff.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterAttendance(func(a *staff.AttendanceRecord) bool { return a.ShiftID == shiftID }), nil
}

func (s *Store) ListAttendanceByShiftAndDate(ctx context.Context, shiftID, date string) ([]*staff.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterAttendance(func(a *staff.AttendanceRecord) bool {
		return a.ShiftID == shiftID && a.Date == date
	}), nil
}

func (s *Store) ListAttendanceByMember(ctx context.Context, memberID string) ([]*staff.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterAttendance(func(a *staff.AttendanceRecord) bool { return a.MemberID == memberID }), nil
}

func (s *Store) filterAttendance(keep func(*staff.AttendanceRecord) bool) []*staff.AttendanceRecord {
	var out []*staff.AttendanceRecord
	for _, a := range s.attendance {
		if keep(a) {
			copied := *a
			out = append(out, &copied)
		}
	}
	sortByCreated(out, func(a *staff.AttendanceRecord) time.Time { return a.CreatedAt }, func(a *staff.AttendanceRecord) string { return a.ID })
	return out
}

func (s *Store) UpdateAttendance(ctx context.Context, id string, update staff.AttendanceUpdate) (*staff.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attendance[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	if update.Status != nil {
		a.Status = *update.Status
	}
	if update.Notes != nil {
		a.Notes = *update.Notes
	}
	copied := *a
	return &copied, nil
}

func (s *Store) DeleteAttendance(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.attendance[id]; !ok {
		return staff.ErrNotFound
	}
	delete(s.attendance, id)
	return nil
}

// --- lifecycle ---

func (s *Store) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

// sortByCreated orders records oldest-first. Records come out of map
// iteration, so ties on the timestamp break on id to keep list output
// deterministic.
func sortByCreated[T any](items []*T, createdAt func(*T) time.Time, id func(*T) string) {
	sort.Slice(items, func(i, j int) bool {
		ti, tj := createdAt(items[i]), createdAt(items[j])
		if ti.Equal(tj) {
			return id(items[i]) < id(items[j])
		}
		return ti.Before(tj)
	})
}
