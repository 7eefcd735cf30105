// Package postgres implements storage.Store on PostgreSQL, with an
// optional Redis/LRU read cache layered on top (see cache.go).
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage"
)

// Store implements storage.Store on a PostgreSQL database.
type Store struct {
	db     *sql.DB
	config storage.Config
}

// NewStore connects to PostgreSQL, ensures the schema and returns the
// store.
func NewStore(config storage.Config) (*Store, error) {
	db, err := sql.Open("postgres", config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(config.PostgresMaxConns)
	db.SetMaxIdleConns(config.PostgresMinConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), config.PostgresTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &Store{db: db, config: config}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB wraps an existing connection. Used by tests.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS shifts (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		vice_leader_id TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		id UUID PRIMARY KEY,
		access_code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		shift_id UUID REFERENCES shifts(id) ON DELETE SET NULL,
		is_chief BOOLEAN NOT NULL DEFAULT FALSE,
		char_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// At most one chief per shift, enforced by the database itself.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_members_shift_chief
		ON members (shift_id) WHERE is_chief`,
	`CREATE INDEX IF NOT EXISTS idx_members_shift ON members (shift_id)`,
	`CREATE TABLE IF NOT EXISTS warnings (
		id UUID PRIMARY KEY,
		member_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		issued_by TEXT NOT NULL,
		shift_id UUID,
		reason TEXT NOT NULL,
		occurrence_type TEXT NOT NULL,
		occurrence_date TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_warnings_member ON warnings (member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_warnings_shift ON warnings (shift_id)`,
	`CREATE TABLE IF NOT EXISTS promotions (
		id UUID PRIMARY KEY,
		member_id TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		from_role TEXT NOT NULL,
		to_role TEXT NOT NULL,
		shift_id TEXT,
		notes TEXT NOT NULL DEFAULT '',
		made_chief BOOLEAN NOT NULL DEFAULT FALSE,
		was_chief BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_promotions_member ON promotions (member_id)`,
	`CREATE TABLE IF NOT EXISTS rules (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		scope TEXT NOT NULL,
		shift_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS me_categories (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		scope TEXT NOT NULL,
		shift_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS me_commands (
		id UUID PRIMARY KEY,
		text TEXT NOT NULL,
		category_id UUID REFERENCES me_categories(id) ON DELETE SET NULL,
		scope TEXT NOT NULL,
		shift_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS covenants (
		id UUID PRIMARY KEY,
		organization_name TEXT NOT NULL,
		amount_paid DOUBLE PRECISION NOT NULL,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		total_seconds BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id UUID PRIMARY KEY,
		member_id TEXT NOT NULL,
		shift_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_shift_date ON attendance (shift_id, date)`,
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// --- members ---

const memberColumns = `id, access_code, name, role, shift_id, is_chief, char_name, phone, created_at, updated_at`

func scanMember(row interface{ Scan(...interface{}) error }) (*staff.Member, error) {
	var m staff.Member
	var role string
	var shiftID sql.NullString
	if err := row.Scan(&m.ID, &m.AccessCode, &m.Name, &role, &shiftID, &m.IsChief,
		&m.CharName, &m.Phone, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Role = roles.Role(role)
	if shiftID.Valid {
		m.ShiftID = &shiftID.String
	}
	return &m, nil
}

func (s *Store) CreateMember(ctx context.Context, m *staff.Member) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `
		INSERT INTO members (id, access_code, name, role, shift_id, is_chief, char_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.AccessCode, m.Name, string(m.Role), nullString(m.ShiftID),
		m.IsChief, m.CharName, m.Phone, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (s *Store) GetMember(ctx context.Context, id string) (*staff.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

func (s *Store) GetMemberByAccessCode(ctx context.Context, accessCode string) (*staff.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE access_code = $1`, accessCode)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get member by access code: %w", err)
	}
	return m, nil
}

func (s *Store) ListMembers(ctx context.Context) ([]*staff.Member, error) {
	return s.queryMembers(ctx,
		`SELECT `+memberColumns+` FROM members ORDER BY created_at`)
}

func (s *Store) ListMembersByShift(ctx context.Context, shiftID string) ([]*staff.Member, error) {
	return s.queryMembers(ctx,
		`SELECT `+memberColumns+` FROM members WHERE shift_id = $1 ORDER BY created_at`, shiftID)
}

func (s *Store) queryMembers(ctx context.Context, query string, args ...interface{}) ([]*staff.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*staff.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) UpdateMember(ctx context.Context, id string, update staff.MemberUpdate) (*staff.Member, error) {
	query := `
		UPDATE members SET
			access_code = COALESCE($2, access_code),
			name        = COALESCE($3, name),
			shift_id    = CASE WHEN $4 THEN NULLIF($5, '') ELSE shift_id END,
			char_name   = COALESCE($6, char_name),
			phone       = COALESCE($7, phone),
			updated_at  = NOW()
		WHERE id = $1
		RETURNING ` + memberColumns

	shiftSet := update.ShiftID != nil
	var shiftVal string
	if shiftSet {
		shiftVal = *update.ShiftID
	}

	row := s.db.QueryRowContext(ctx, query, id,
		update.AccessCode, update.Name, shiftSet, shiftVal, update.CharName, update.Phone)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return m, nil
}

func (s *Store) DeleteMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

func (s *Store) ChangeRole(ctx context.Context, params storage.ChangeRoleParams) (*storage.RoleChangeResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin role change: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1 FOR UPDATE`, params.MemberID)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to lock member: %w", err)
	}

	result := &storage.RoleChangeResult{WasChief: m.IsChief}

	if params.MakeChief && m.ShiftID != nil {
		rows, err := tx.QueryContext(ctx,
			`SELECT `+memberColumns+` FROM members
			 WHERE shift_id = $1 AND is_chief AND id <> $2 FOR UPDATE`,
			*m.ShiftID, m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock current chief: %w", err)
		}
		var chiefs []*staff.Member
		for rows.Next() {
			chief, err := scanMember(rows)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan chief: %w", err)
			}
			chiefs = append(chiefs, chief)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read chiefs: %w", err)
		}

		if len(chiefs) > 1 {
			return nil, staff.ErrChiefConflict
		}
		if len(chiefs) == 1 {
			displaced := chiefs[0]
			if _, err := tx.ExecContext(ctx,
				`UPDATE members SET is_chief = FALSE, updated_at = NOW() WHERE id = $1`,
				displaced.ID); err != nil {
				return nil, fmt.Errorf("failed to displace chief: %w", err)
			}
			displaced.IsChief = false
			result.Displaced = displaced
		}
	}

	row = tx.QueryRowContext(ctx,
		`UPDATE members SET role = $2, is_chief = $3, updated_at = NOW()
		 WHERE id = $1 RETURNING `+memberColumns,
		params.MemberID, string(params.NewRole), params.MakeChief)
	updated, err := scanMember(row)
	if err != nil {
		return nil, fmt.Errorf("failed to apply role change: %w", err)
	}
	result.Member = updated

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit role change: %w", err)
	}
	return result, nil
}

// --- shifts ---

func (s *Store) CreateShift(ctx context.Context, sh *staff.Shift) error {
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	sh.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shifts (id, name, vice_leader_id, password, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		sh.ID, sh.Name, sh.ViceLeaderID, sh.Password, sh.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

func (s *Store) GetShift(ctx context.Context, id string) (*staff.Shift, error) {
	var sh staff.Shift
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, vice_leader_id, password, created_at FROM shifts WHERE id = $1`, id).
		Scan(&sh.ID, &sh.Name, &sh.ViceLeaderID, &sh.Password, &sh.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return &sh, nil
}

func (s *Store) ListShifts(ctx context.Context) ([]*staff.Shift, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, vice_leader_id, password, created_at FROM shifts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*staff.Shift
	for rows.Next() {
		var sh staff.Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.ViceLeaderID, &sh.Password, &sh.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, &sh)
	}
	return shifts, rows.Err()
}

func (s *Store) UpdateShift(ctx context.Context, id string, update staff.ShiftUpdate) (*staff.Shift, error) {
	var sh staff.Shift
	err := s.db.QueryRowContext(ctx,
		`UPDATE shifts SET
			name           = COALESCE($2, name),
			vice_leader_id = COALESCE($3, vice_leader_id),
			password       = COALESCE($4, password)
		 WHERE id = $1
		 RETURNING id, name, vice_leader_id, password, created_at`,
		id, update.Name, update.ViceLeaderID, update.Password).
		Scan(&sh.ID, &sh.Name, &sh.ViceLeaderID, &sh.Password, &sh.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to update shift: %w", err)
	}
	return &sh, nil
}

func (s *Store) DeleteShift(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

func (s *Store) ValidateShiftPassword(ctx context.Context, shiftID, password string) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT password FROM shifts WHERE id = $1`, shiftID).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, staff.ErrNotFound
	} else if err != nil {
		return false, fmt.Errorf("failed to validate shift password: %w", err)
	}
	return stored == password, nil
}

// --- warnings ---

const warningColumns = `id, member_id, issued_by, shift_id, reason, occurrence_type, occurrence_date, notes, created_at`

func scanWarning(row interface{ Scan(...interface{}) error }) (*staff.Warning, error) {
	var w staff.Warning
	var occType string
	var shiftID sql.NullString
	if err := row.Scan(&w.ID, &w.MemberID, &w.IssuedBy, &shiftID, &w.Reason,
		&occType, &w.OccurrenceDate, &w.Notes, &w.CreatedAt); err != nil {
		return nil, err
	}
	w.OccurrenceType = staff.OccurrenceType(occType)
	if shiftID.Valid {
		w.ShiftID = &shiftID.String
	}
	return &w, nil
}

func (s *Store) CreateWarningCounting(ctx context.Context, w *staff.Warning) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin warning insert: %w", err)
	}
	defer tx.Rollback()

	// Lock the member row so concurrent warning inserts for the same
	// member serialize and each observes a distinct count.
	var memberID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM members WHERE id = $1 FOR UPDATE`, w.MemberID).Scan(&memberID)
	if err == sql.ErrNoRows {
		return 0, staff.ErrNotFound
	} else if err != nil {
		return 0, fmt.Errorf("failed to lock member: %w", err)
	}

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	w.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO warnings (id, member_id, issued_by, shift_id, reason, occurrence_type, occurrence_date, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		w.ID, w.MemberID, w.IssuedBy, nullString(w.ShiftID), w.Reason,
		string(w.OccurrenceType), w.OccurrenceDate, w.Notes, w.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert warning: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM warnings WHERE member_id = $1`, w.MemberID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count warnings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit warning insert: %w", err)
	}
	return count, nil
}

func (s *Store) GetWarning(ctx context.Context, id string) (*staff.Warning, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+warningColumns+` FROM warnings WHERE id = $1`, id)
	w, err := scanWarning(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get warning: %w", err)
	}
	return w, nil
}

func (s *Store) ListWarnings(ctx context.Context) ([]*staff.Warning, error) {
	return s.queryWarnings(ctx,
		`SELECT `+warningColumns+` FROM warnings ORDER BY created_at`)
}

func (s *Store) ListWarningsByMember(ctx context.Context, memberID string) ([]*staff.Warning, error) {
	return s.queryWarnings(ctx,
		`SELECT `+warningColumns+` FROM warnings WHERE member_id = $1 ORDER BY created_at`, memberID)
}

func (s *Store) ListWarningsByShift(ctx context.Context, shiftID string) ([]*staff.Warning, error) {
	return s.queryWarnings(ctx,
		`SELECT `+warningColumns+` FROM warnings WHERE shift_id = $1 ORDER BY created_at`, shiftID)
}

func (s *Store) queryWarnings(ctx context.Context, query string, args ...interface{}) ([]*staff.Warning, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	defer rows.Close()

	var warnings []*staff.Warning
	for rows.Next() {
		w, err := scanWarning(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

func (s *Store) UpdateWarning(ctx context.Context, id string, update staff.WarningUpdate) (*staff.Warning, error) {
	var occType *string
	if update.OccurrenceType != nil {
		v := string(*update.OccurrenceType)
		occType = &v
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE warnings SET
			reason          = COALESCE($2, reason),
			occurrence_type = COALESCE($3, occurrence_type),
			occurrence_date = COALESCE($4, occurrence_date),
			notes           = COALESCE($5, notes)
		 WHERE id = $1
		 RETURNING `+warningColumns,
		id, update.Reason, occType, update.OccurrenceDate, update.Notes)
	w, err := scanWarning(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to update warning: %w", err)
	}
	return w, nil
}

func (s *Store) DeleteWarning(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM warnings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete warning: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

// --- promotions ---

func (s *Store) CreatePromotion(ctx context.Context, p *staff.Promotion) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO promotions (id, member_id, actor_id, from_role, to_role, shift_id, notes, made_chief, was_chief, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.MemberID, p.ActorID, string(p.FromRole), string(p.ToRole),
		nullString(p.ShiftID), p.Notes, p.MadeChief, p.WasChief, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

func (s *Store) ListPromotions(ctx context.Context) ([]*staff.Promotion, error) {
	return s.queryPromotions(ctx,
		`SELECT id, member_id, actor_id, from_role, to_role, shift_id, notes, made_chief, was_chief, created_at
		 FROM promotions ORDER BY created_at`)
}

func (s *Store) ListPromotionsByMember(ctx context.Context, memberID string) ([]*staff.Promotion, error) {
	return s.queryPromotions(ctx,
		`SELECT id, member_id, actor_id, from_role, to_role, shift_id, notes, made_chief, was_chief, created_at
		 FROM promotions WHERE member_id = $1 ORDER BY created_at`, memberID)
}

func (s *Store) queryPromotions(ctx context.Context, query string, args ...interface{}) ([]*staff.Promotion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer rows.Close()

	var promotions []*staff.Promotion
	for rows.Next() {
		var p staff.Promotion
		var fromRole, toRole string
		var shiftID sql.NullString
		if err := rows.Scan(&p.ID, &p.MemberID, &p.ActorID, &fromRole, &toRole,
			&shiftID, &p.Notes, &p.MadeChief, &p.WasChief, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		p.FromRole = roles.Role(fromRole)
		p.ToRole = roles.Role(toRole)
		if shiftID.Valid {
			p.ShiftID = &shiftID.String
		}
		promotions = append(promotions, &p)
	}
	return promotions, rows.Err()
}

// --- rules ---

const ruleColumns = `id, title, content, scope, shift_id, created_at, updated_at`

func scanRule(row interface{ Scan(...interface{}) error }) (*staff.Rule, error) {
	var r staff.Rule
	var scope string
	var shiftID sql.NullString
	if err := row.Scan(&r.ID, &r.Title, &r.Content, &scope, &shiftID,
		&r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Scope = staff.ResourceScope(scope)
	if shiftID.Valid {
		r.ShiftID = &shiftID.String
	}
	return &r, nil
}

func (s *Store) CreateRule(ctx context.Context, r *staff.Rule) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rules (id, title, content, scope, shift_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.Title, r.Content, string(r.Scope), nullString(r.ShiftID), r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

func (s *Store) GetRule(ctx context.Context, id string) (*staff.Rule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM rules WHERE id = $1`, id)
	r, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return r, nil
}

func (s *Store) ListRules(ctx context.Context) ([]*staff.Rule, error) {
	return s.queryRules(ctx, `SELECT `+ruleColumns+` FROM rules ORDER BY created_at`)
}

func (s *Store) ListRulesByScope(ctx context.Context, scope staff.ResourceScope) ([]*staff.Rule, error) {
	return s.queryRules(ctx,
		`SELECT `+ruleColumns+` FROM rules WHERE scope = $1 ORDER BY created_at`, string(scope))
}

func (s *Store) ListRulesByShift(ctx context.Context, shiftID string) ([]*staff.Rule, error) {
	return s.queryRules(ctx,
		`SELECT `+ruleColumns+` FROM rules WHERE shift_id = $1 ORDER BY created_at`, shiftID)
}

func (s *Store) queryRules(ctx context.Context, query string, args ...interface{}) ([]*staff.Rule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var out []*staff.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateRule(ctx context.Context, id string, update staff.RuleUpdate) (*staff.Rule, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE rules SET
			title      = COALESCE($2, title),
			content    = COALESCE($3, content),
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+ruleColumns,
		id, update.Title, update.Content)
	r, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}
	return r, nil
}

func (s *Store) DeleteRule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

// --- /me categories ---

func (s *Store) CreateMeCategory(ctx context.Context, c *staff.MeCategory) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO me_categories (id, name, description, scope, shift_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Description, string(c.Scope), nullString(c.ShiftID), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func scanMeCategory(row interface{ Scan(...interface{}) error }) (*staff.MeCategory, error) {
	var c staff.MeCategory
	var scope string
	var shiftID sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &scope, &shiftID, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Scope = staff.ResourceScope(scope)
	if shiftID.Valid {
		c.ShiftID = &shiftID.String
	}
	return &c, nil
}

func (s *Store) GetMeCategory(ctx context.Context, id string) (*staff.MeCategory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, scope, shift_id, created_at FROM me_categories WHERE id = $1`, id)
	c, err := scanMeCategory(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (s *Store) ListMeCategories(ctx context.Context) ([]*staff.MeCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, scope, shift_id, created_at FROM me_categories ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []*staff.MeCategory
	for rows.Next() {
		c, err := scanMeCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateMeCategory(ctx context.Context, id string, update staff.MeCategoryUpdate) (*staff.MeCategory, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE me_categories SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description)
		 WHERE id = $1
		 RETURNING id, name, description, scope, shift_id, created_at`,
		id, update.Name, update.Description)
	c, err := scanMeCategory(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

func (s *Store) DeleteMeCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM me_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

// --- /me commands ---

func scanMeCommand(row interface{ Scan(...interface{}) error }) (*staff.MeCommand, error) {
	var c staff.MeCommand
	var scope string
	var categoryID, shiftID sql.NullString
	if err := row.Scan(&c.ID, &c.Text, &categoryID, &scope, &shiftID, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Scope = staff.ResourceScope(scope)
	if categoryID.Valid {
		c.CategoryID = &categoryID.String
	}
	if shiftID.Valid {
		c.ShiftID = &shiftID.String
	}
	return &c, nil
}

func (s *Store) CreateMeCommand(ctx context.Context, c *staff.MeCommand) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO me_commands (id, text, category_id, scope, shift_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Text, nullString(c.CategoryID), string(c.Scope), nullString(c.ShiftID), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create command: %w", err)
	}
	return nil
}

func (s *Store) GetMeCommand(ctx context.Context, id string) (*staff.MeCommand, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, text, category_id, scope, shift_id, created_at FROM me_commands WHERE id = $1`, id)
	c, err := scanMeCommand(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get command: %w", err)
	}
	return c, nil
}

func (s *Store) ListMeCommands(ctx context.Context) ([]*staff.MeCommand, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, category_id, scope, shift_id, created_at FROM me_commands ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list commands: %w", err)
	}
	defer rows.Close()

	var out []*staff.MeCommand
	for rows.Next() {
		c, err := scanMeCommand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateMeCommand(ctx context.Context, id string, update staff.MeCommandUpdate) (*staff.MeCommand, error) {
	categorySet := update.CategoryID != nil
	var categoryVal string
	if categorySet {
		categoryVal = *update.CategoryID
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE me_commands SET
			text        = COALESCE($2, text),
			category_id = CASE WHEN $3 THEN NULLIF($4, '')::uuid ELSE category_id END
		 WHERE id = $1
		 RETURNING id, text, category_id, scope, shift_id, created_at`,
		id, update.Text, categorySet, categoryVal)
	c, err := scanMeCommand(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to update command: %w", err)
	}
	return c, nil
}

func (s *Store) DeleteMeCommand(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM me_commands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete command: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

// --- covenants ---

const covenantColumns = `id, organization_name, amount_paid, start_date, end_date, total_seconds, created_at`

func scanCovenant(row interface{ Scan(...interface{}) error }) (*staff.Covenant, error) {
	var c staff.Covenant
	if err := row.Scan(&c.ID, &c.OrganizationName, &c.AmountPaid, &c.StartDate,
		&c.EndDate, &c.TotalSeconds, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCovenant(ctx context.Context, c *staff.Covenant) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO covenants (id, organization_name, amount_paid, start_date, end_date, total_seconds, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.OrganizationName, c.AmountPaid, c.StartDate, c.EndDate, c.TotalSeconds, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create covenant: %w", err)
	}
	return nil
}

func (s *Store) GetCovenant(ctx context.Context, id string) (*staff.Covenant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+covenantColumns+` FROM covenants WHERE id = $1`, id)
	c, err := scanCovenant(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get covenant: %w", err)
	}
	return c, nil
}

func (s *Store) ListCovenants(ctx context.Context) ([]*staff.Covenant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+covenantColumns+` FROM covenants ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list covenants: %w", err)
	}
	defer rows.Close()

	var out []*staff.Covenant
	for rows.Next() {
		c, err := scanCovenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan covenant: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCovenant(ctx context.Context, id string, update staff.CovenantUpdate) (*staff.Covenant, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE covenants SET
			organization_name = COALESCE($2, organization_name),
			amount_paid       = COALESCE($3, amount_paid),
			end_date          = COALESCE($4, end_date),
			total_seconds     = COALESCE($5, total_seconds)
		 WHERE id = $1
		 RETURNING `+covenantColumns,
		id, update.OrganizationName, update.AmountPaid, update.EndDate, update.TotalSeconds)
	c, err := scanCovenant(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to update covenant: %w", err)
	}
	return c, nil
}

func (s *Store) DeleteCovenant(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM covenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete covenant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

// --- attendance ---

const attendanceColumns = `id, member_id, shift_id, date, status, notes, created_by, created_at`

func scanAttendance(row interface{ Scan(...interface{}) error }) (*staff.AttendanceRecord, error) {
	var a staff.AttendanceRecord
	var status string
	if err := row.Scan(&a.ID, &a.MemberID, &a.ShiftID, &a.Date, &status,
		&a.Notes, &a.CreatedBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Status = staff.AttendanceStatus(status)
	return &a, nil
}

func (s *Store) CreateAttendance(ctx context.Context, a *staff.AttendanceRecord) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (id, member_id, shift_id, date, status, notes, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.MemberID, a.ShiftID, a.Date, string(a.Status), a.Notes, a.CreatedBy, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

func (s *Store) GetAttendance(ctx context.Context, id string) (*staff.AttendanceRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, id)
	a, err := scanAttendance(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return a, nil
}

func (s *Store) ListAttendance(ctx context.Context) ([]*staff.AttendanceRecord, error) {
	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance ORDER BY created_at`)
}

func (s *Store) ListAttendanceByShift(ctx context.Context, shiftID string) ([]*staff.AttendanceRecord, error) {
	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE shift_id = $1 ORDER BY created_at`, shiftID)
}

func (s *Store) ListAttendanceByShiftAndDate(ctx context.Context, shiftID, date string) ([]*staff.AttendanceRecord, error) {
	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE shift_id = $1 AND date = $2 ORDER BY created_at`,
		shiftID, date)
}

func (s *Store) ListAttendanceByMember(ctx context.Context, memberID string) ([]*staff.AttendanceRecord, error) {
	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE member_id = $1 ORDER BY created_at`, memberID)
}

func (s *Store) queryAttendance(ctx context.Context, query string, args ...interface{}) ([]*staff.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var out []*staff.AttendanceRecord
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAttendance(ctx context.Context, id string, update staff.AttendanceUpdate) (*staff.AttendanceRecord, error) {
	var status *string
	if update.Status != nil {
		v := string(*update.Status)
		status = &v
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE attendance SET
			status = COALESCE($2, status),
			notes  = COALESCE($3, notes)
		 WHERE id = $1
		 RETURNING `+attendanceColumns,
		id, status, update.Notes)
	a, err := scanAttendance(row)
	if err == sql.ErrNoRows {
		return nil, staff.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return a, nil
}

func (s *Store) DeleteAttendance(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

// --- lifecycle ---

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres unhealthy: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle so the audit logger can share the
// connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
