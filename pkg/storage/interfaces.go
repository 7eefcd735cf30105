// Package storage defines the persistence interfaces for the personnel
// engine and its configuration. Two implementations exist: an in-memory
// store (tests, development) and a PostgreSQL store with an optional
// Redis/LRU read cache.
package storage

import (
	"context"
	"time"

	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// ChangeRoleParams describes a role change to apply atomically.
type ChangeRoleParams struct {
	MemberID  string
	NewRole   roles.Role
	MakeChief bool
}

// RoleChangeResult reports what a ChangeRole call did. Displaced is the
// shift's previous chief whose flag was cleared, nil when nobody was.
type RoleChangeResult struct {
	Member    *staff.Member
	WasChief  bool
	Displaced *staff.Member
}

// MemberStore persists members. ChangeRole is the only way to touch the
// role or chief fields; UpdateMember covers everything else.
type MemberStore interface {
	CreateMember(ctx context.Context, m *staff.Member) error
	GetMember(ctx context.Context, id string) (*staff.Member, error)
	GetMemberByAccessCode(ctx context.Context, accessCode string) (*staff.Member, error)
	ListMembers(ctx context.Context) ([]*staff.Member, error)
	ListMembersByShift(ctx context.Context, shiftID string) ([]*staff.Member, error)
	UpdateMember(ctx context.Context, id string, update staff.MemberUpdate) (*staff.Member, error)
	DeleteMember(ctx context.Context, id string) error

	// ChangeRole atomically sets the member's role and chief flag,
	// displacing the shift's current chief when MakeChief is set. It
	// fails with staff.ErrChiefConflict when the shift already holds
	// two chiefs.
	ChangeRole(ctx context.Context, params ChangeRoleParams) (*RoleChangeResult, error)
}

// ShiftStore persists shifts and validates their shared passwords.
type ShiftStore interface {
	CreateShift(ctx context.Context, s *staff.Shift) error
	GetShift(ctx context.Context, id string) (*staff.Shift, error)
	ListShifts(ctx context.Context) ([]*staff.Shift, error)
	UpdateShift(ctx context.Context, id string, update staff.ShiftUpdate) (*staff.Shift, error)
	DeleteShift(ctx context.Context, id string) error
	ValidateShiftPassword(ctx context.Context, shiftID, password string) (bool, error)
}

// WarningStore persists disciplinary warnings. CreateWarningCounting
// inserts and recounts in one atomic unit so two concurrent warnings
// cannot both observe a pre-threshold count.
type WarningStore interface {
	CreateWarningCounting(ctx context.Context, w *staff.Warning) (count int, err error)
	GetWarning(ctx context.Context, id string) (*staff.Warning, error)
	ListWarnings(ctx context.Context) ([]*staff.Warning, error)
	ListWarningsByMember(ctx context.Context, memberID string) ([]*staff.Warning, error)
	ListWarningsByShift(ctx context.Context, shiftID string) ([]*staff.Warning, error)
	UpdateWarning(ctx context.Context, id string, update staff.WarningUpdate) (*staff.Warning, error)
	DeleteWarning(ctx context.Context, id string) error
}

// PromotionStore persists immutable promotion history.
type PromotionStore interface {
	CreatePromotion(ctx context.Context, p *staff.Promotion) error
	ListPromotions(ctx context.Context) ([]*staff.Promotion, error)
	ListPromotionsByMember(ctx context.Context, memberID string) ([]*staff.Promotion, error)
}

// ResourceStore persists the plain validated-record collections: rules,
// /me commands and categories, covenants and attendance.
type ResourceStore interface {
	CreateRule(ctx context.Context, r *staff.Rule) error
	GetRule(ctx context.Context, id string) (*staff.Rule, error)
	ListRules(ctx context.Context) ([]*staff.Rule, error)
	ListRulesByScope(ctx context.Context, scope staff.ResourceScope) ([]*staff.Rule, error)
	ListRulesByShift(ctx context.Context, shiftID string) ([]*staff.Rule, error)
	UpdateRule(ctx context.Context, id string, update staff.RuleUpdate) (*staff.Rule, error)
	DeleteRule(ctx context.Context, id string) error

	CreateMeCategory(ctx context.Context, c *staff.MeCategory) error
	GetMeCategory(ctx context.Context, id string) (*staff.MeCategory, error)
	ListMeCategories(ctx context.Context) ([]*staff.MeCategory, error)
	UpdateMeCategory(ctx context.Context, id string, update staff.MeCategoryUpdate) (*staff.MeCategory, error)
	DeleteMeCategory(ctx context.Context, id string) error

	CreateMeCommand(ctx context.Context, c *staff.MeCommand) error
	GetMeCommand(ctx context.Context, id string) (*staff.MeCommand, error)
	ListMeCommands(ctx context.Context) ([]*staff.MeCommand, error)
	UpdateMeCommand(ctx context.Context, id string, update staff.MeCommandUpdate) (*staff.MeCommand, error)
	DeleteMeCommand(ctx context.Context, id string) error

	CreateCovenant(ctx context.Context, c *staff.Covenant) error
	GetCovenant(ctx context.Context, id string) (*staff.Covenant, error)
	ListCovenants(ctx context.Context) ([]*staff.Covenant, error)
	UpdateCovenant(ctx context.Context, id string, update staff.CovenantUpdate) (*staff.Covenant, error)
	DeleteCovenant(ctx context.Context, id string) error

	CreateAttendance(ctx context.Context, a *staff.AttendanceRecord) error
	GetAttendance(ctx context.Context, id string) (*staff.AttendanceRecord, error)
	ListAttendance(ctx context.Context) ([]*staff.AttendanceRecord, error)
	ListAttendanceByShift(ctx context.Context, shiftID string) ([]*staff.AttendanceRecord, error)
	ListAttendanceByShiftAndDate(ctx context.Context, shiftID, date string) ([]*staff.AttendanceRecord, error)
	ListAttendanceByMember(ctx context.Context, memberID string) ([]*staff.AttendanceRecord, error)
	UpdateAttendance(ctx context.Context, id string, update staff.AttendanceUpdate) (*staff.AttendanceRecord, error)
	DeleteAttendance(ctx context.Context, id string) error
}

// Store is the full persistence surface the services depend on.
type Store interface {
	MemberStore
	ShiftStore
	WarningStore
	PromotionStore
	ResourceStore

	HealthCheck(ctx context.Context) error
	Close() error
}

// Config for the storage backend.
type Config struct {
	Type string `yaml:"type"` // "memory" or "postgres"

	// PostgreSQL config
	PostgresURL      string        `yaml:"postgres_url"`
	PostgresMaxConns int           `yaml:"postgres_max_conns"`
	PostgresMinConns int           `yaml:"postgres_min_conns"`
	PostgresTimeout  time.Duration `yaml:"postgres_timeout"`

	// Redis read-cache config (postgres only)
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	CacheEnabled bool          `yaml:"cache_enabled"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	L1CacheSize  int           `yaml:"l1_cache_size"` // entries
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Type:             "memory",
		PostgresMaxConns: 20,
		PostgresMinConns: 2,
		PostgresTimeout:  10 * time.Second,
		CacheEnabled:     false,
		CacheTTL:         5 * time.Minute,
		L1CacheSize:      1024,
	}
}
