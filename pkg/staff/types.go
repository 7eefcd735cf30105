// Package staff defines the personnel data model shared by the stores,
// the workflow services and the HTTP layer, plus the service-wide error
// taxonomy.
package staff

import (
	"time"

	"github.com/hospital-rp/staffd/pkg/roles"
)

// Member is a tracked person in the organization. AccessCode doubles as
// the login credential. ShiftID is nil for unassigned members. IsChief
// is only meaningful while Role is surgeon.
type Member struct {
	ID         string     `json:"id"`
	AccessCode string     `json:"access_code"`
	Name       string     `json:"name"`
	Role       roles.Role `json:"role"`
	ShiftID    *string    `json:"shift_id"`
	IsChief    bool       `json:"is_chief"`
	CharName   string     `json:"char_name,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MemberUpdate carries the editable non-role fields of a member. Nil
// fields are left untouched.
type MemberUpdate struct {
	AccessCode *string `json:"access_code,omitempty"`
	Name       *string `json:"name,omitempty"`
	ShiftID    *string `json:"shift_id,omitempty"`
	CharName   *string `json:"char_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// Shift is a duty-roster partition with its own vice-leader and a
// shared plaintext password gating shift-scoped actions.
type Shift struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ViceLeaderID string    `json:"vice_leader_id"`
	Password     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ShiftUpdate carries the editable fields of a shift.
type ShiftUpdate struct {
	Name         *string `json:"name,omitempty"`
	ViceLeaderID *string `json:"vice_leader_id,omitempty"`
	Password     *string `json:"password,omitempty"`
}

// ResourceScope partitions shared records into org-wide and per-shift.
type ResourceScope string

const (
	ScopeGeneral ResourceScope = "general"
	ScopeShift   ResourceScope = "shift"
)

// ValidScope reports whether s is a known resource scope.
func ValidScope(s ResourceScope) bool {
	return s == ScopeGeneral || s == ScopeShift
}

// Rule is a reference rule text, org-wide or shift-scoped.
type Rule struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Scope     ResourceScope `json:"scope"`
	ShiftID   *string       `json:"shift_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RuleUpdate carries the editable fields of a rule.
type RuleUpdate struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// MeCategory groups /me reference commands.
type MeCategory struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Scope       ResourceScope `json:"scope"`
	ShiftID     *string       `json:"shift_id"`
	CreatedAt   time.Time     `json:"created_at"`
}

// MeCommand is a single /me reference command.
type MeCommand struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	CategoryID *string       `json:"category_id"`
	Scope      ResourceScope `json:"scope"`
	ShiftID    *string       `json:"shift_id"`
	CreatedAt  time.Time     `json:"created_at"`
}

// MeCategoryUpdate carries the editable fields of a /me category.
type MeCategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// MeCommandUpdate carries the editable fields of a /me command.
type MeCommandUpdate struct {
	Text       *string `json:"text,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
}

// Covenant is a sponsor agreement whose expiry window derives from the
// amount paid.
type Covenant struct {
	ID               string    `json:"id"`
	OrganizationName string    `json:"organization_name"`
	AmountPaid       float64   `json:"amount_paid"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	TotalSeconds     int64     `json:"total_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

// CovenantUpdate carries the editable fields of a covenant. The fields
// are absolute values; the paid-amount extension arithmetic happens in
// the resources service before the store is touched.
type CovenantUpdate struct {
	OrganizationName *string    `json:"organization_name,omitempty"`
	AmountPaid       *float64   `json:"amount_paid,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	TotalSeconds     *int64     `json:"total_seconds,omitempty"`
}

// AttendanceStatus marks a member present or absent on a roll call.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// AttendanceRecord is a per-shift roll-call entry.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	MemberID  string           `json:"member_id"`
	ShiftID   string           `json:"shift_id"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	CreatedBy string           `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
}

// AttendanceUpdate carries the editable fields of an attendance record.
type AttendanceUpdate struct {
	Status *AttendanceStatus `json:"status,omitempty"`
	Notes  *string           `json:"notes,omitempty"`
}

// OccurrenceType classifies when a warning-worthy incident happened.
type OccurrenceType string

const (
	OccurrenceStandardShift OccurrenceType = "standard_shift"
	OccurrenceExtraShift    OccurrenceType = "extra_shift"
	OccurrenceOffShift      OccurrenceType = "off_shift"
)

// ValidOccurrenceType reports whether t is a known occurrence type.
func ValidOccurrenceType(t OccurrenceType) bool {
	switch t {
	case OccurrenceStandardShift, OccurrenceExtraShift, OccurrenceOffShift:
		return true
	}
	return false
}

// Warning is a disciplinary record. Accumulating three non-deleted
// warnings removes the member from the roster.
type Warning struct {
	ID             string         `json:"id"`
	MemberID       string         `json:"member_id"`
	IssuedBy       string         `json:"issued_by"`
	ShiftID        *string        `json:"shift_id"`
	Reason         string         `json:"reason"`
	OccurrenceType OccurrenceType `json:"occurrence_type"`
	OccurrenceDate string         `json:"occurrence_date"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// WarningUpdate carries the editable fields of a warning.
type WarningUpdate struct {
	Reason         *string         `json:"reason,omitempty"`
	OccurrenceType *OccurrenceType `json:"occurrence_type,omitempty"`
	OccurrenceDate *string         `json:"occurrence_date,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
}

// Promotion is an immutable history entry for a role change. WasChief
// records the chief flag before the change, MadeChief the flag after.
type Promotion struct {
	ID        string     `json:"id"`
	MemberID  string     `json:"member_id"`
	ActorID   string     `json:"actor_id"`
	FromRole  roles.Role `json:"from_role"`
	ToRole    roles.Role `json:"to_role"`
	ShiftID   *string    `json:"shift_id"`
	Notes     string     `json:"notes,omitempty"`
	MadeChief bool       `json:"made_chief"`
	WasChief  bool       `json:"was_chief"`
	CreatedAt time.Time  `json:"created_at"`
}
