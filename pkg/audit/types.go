// Package audit provides the append-only record of every sensitive
// action. Entries are immutable once appended and are queried
// newest-first by an administrator-only read surface.
package audit

import "time"

// Action identifies the kind of sensitive action an entry records.
type Action string

const (
	ActionLogin  Action = "login"
	ActionLogout Action = "logout"

	ActionCreateUser    Action = "create_user"
	ActionUpdateUser    Action = "update_user"
	ActionDeleteUser    Action = "delete_user"
	ActionPromoteUser   Action = "promote_user"
	ActionDemoteUser    Action = "demote_user"
	ActionExonerateUser Action = "exonerate_user"

	ActionCreateWarning Action = "create_warning"
	ActionUpdateWarning Action = "update_warning"
	ActionDeleteWarning Action = "delete_warning"

	ActionCreateAttendance Action = "create_attendance"
	ActionUpdateAttendance Action = "update_attendance"
	ActionDeleteAttendance Action = "delete_attendance"

	ActionCreateCovenant Action = "create_covenant"
	ActionUpdateCovenant Action = "update_covenant"
	ActionDeleteCovenant Action = "delete_covenant"

	ActionCreateRule Action = "create_rule"
	ActionUpdateRule Action = "update_rule"
	ActionDeleteRule Action = "delete_rule"

	ActionCreateMeCommand Action = "create_me_command"
	ActionUpdateMeCommand Action = "update_me_command"
	ActionDeleteMeCommand Action = "delete_me_command"

	ActionCreateMeCategory Action = "create_me_category"
	ActionUpdateMeCategory Action = "update_me_category"
	ActionDeleteMeCategory Action = "delete_me_category"

	ActionCreateShift Action = "create_shift"
	ActionUpdateShift Action = "update_shift"
	ActionDeleteShift Action = "delete_shift"
)

var knownActions = map[Action]bool{
	ActionLogin: true, ActionLogout: true,
	ActionCreateUser: true, ActionUpdateUser: true, ActionDeleteUser: true,
	ActionPromoteUser: true, ActionDemoteUser: true, ActionExonerateUser: true,
	ActionCreateWarning: true, ActionUpdateWarning: true, ActionDeleteWarning: true,
	ActionCreateAttendance: true, ActionUpdateAttendance: true, ActionDeleteAttendance: true,
	ActionCreateCovenant: true, ActionUpdateCovenant: true, ActionDeleteCovenant: true,
	ActionCreateRule: true, ActionUpdateRule: true, ActionDeleteRule: true,
	ActionCreateMeCommand: true, ActionUpdateMeCommand: true, ActionDeleteMeCommand: true,
	ActionCreateMeCategory: true, ActionUpdateMeCategory: true, ActionDeleteMeCategory: true,
	ActionCreateShift: true, ActionUpdateShift: true, ActionDeleteShift: true,
}

// ValidAction reports whether a is a known action kind.
func ValidAction(a Action) bool {
	return knownActions[a]
}

// Entry is a single audit log record. ID and Timestamp are assigned at
// append time; no update or delete path exists.
type Entry struct {
	ID             string                 `json:"id"`
	Action         Action                 `json:"action"`
	ActorID        string                 `json:"actor_id"`
	TargetMemberID string                 `json:"target_member_id,omitempty"`
	ShiftID        *string                `json:"shift_id"`
	Details        string                 `json:"details,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

// Filter narrows a query. Zero values match everything. Entries match
// ActorOrTargetID when it equals either the actor or the target member.
type Filter struct {
	ActorOrTargetID string
	Action          Action
	Limit           int
}
