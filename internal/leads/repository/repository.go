package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"realty_crm_backend/internal/leads/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("lead not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)

// foreignKeyViolation is the Postgres SQLSTATE for a broken reference.
const foreignKeyViolation = "23503"

// DB is the slice of pgxpool.Pool the repository uses.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	db DB
}

func New(db DB) *Repository {
	return &Repository{db: db}
}

// LeadRecord is a lead row as stored. Dates, notes and budget stay raw so the
// service can report malformed values per lead instead of failing the scan.
type LeadRecord struct {
	ID             string
	Name           string
	Phone          string
	Status         string
	AssignedTo     *string
	AssignedToName string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	LastActivity   *time.Time
	FollowUpDate   string
	FollowUpTime   string
	FollowUpStatus string
	Budget         string
	Timeline       string
	Project        string
	InterestLevel  string
	Category       string
	Notes          json.RawMessage
}

// LeadFilter narrows ListLeadRecords. Nil fields do not filter.
type LeadFilter struct {
	AssigneeID *string
}

// ActivityRecord is one lead_activity row.
type ActivityRecord struct {
	LeadID    string
	Action    string
	Author    string
	CreatedAt time.Time
}

// CallRecord is one calls row.
type CallRecord struct {
	ID         string
	LeadID     string
	EmployeeID string
	Status     string
	CreatedAt  time.Time
}

const leadColumns = `
	l.id::text, l.name, l.phone, l.status, l.assigned_to::text, COALESCE(e.name, ''),
	l.created_at, l.updated_at, l.last_activity,
	COALESCE(l.follow_up_date, ''), COALESCE(l.follow_up_time, ''), COALESCE(l.follow_up_status, ''),
	COALESCE(l.budget, ''), COALESCE(l.timeline, ''), COALESCE(l.project, ''),
	COALESCE(l.interest_level, ''), COALESCE(l.category, ''), l.notes
`

func scanLead(row pgx.Row) (LeadRecord, error) {
	var rec LeadRecord
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Phone, &rec.Status, &rec.AssignedTo, &rec.AssignedToName,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.LastActivity,
		&rec.FollowUpDate, &rec.FollowUpTime, &rec.FollowUpStatus,
		&rec.Budget, &rec.Timeline, &rec.Project,
		&rec.InterestLevel, &rec.Category, &rec.Notes,
	)
	return rec, err
}

// ListLeadRecords returns all leads, oldest first.
func (r *Repository) ListLeadRecords(ctx context.Context, filter LeadFilter) ([]LeadRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		LEFT JOIN employees e ON e.id = l.assigned_to
		WHERE ($1::uuid IS NULL OR l.assigned_to = $1::uuid)
		ORDER BY l.created_at ASC, l.id ASC
	`, filter.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	items := make([]LeadRecord, 0)
	for rows.Next() {
		rec, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// GetLeadRecord returns one lead or ErrNotFound.
func (r *Repository) GetLeadRecord(ctx context.Context, id string) (LeadRecord, error) {
	rec, err := scanLead(r.db.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		LEFT JOIN employees e ON e.id = l.assigned_to
		WHERE l.id = $1::uuid
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return LeadRecord{}, ErrNotFound
	}
	if err != nil {
		return LeadRecord{}, fmt.Errorf("get lead: %w", err)
	}
	return rec, nil
}

// ListActivity returns the activity log of the given leads in chronological
// order.
func (r *Repository) ListActivity(ctx context.Context, leadIDs []string) ([]ActivityRecord, error) {
	if len(leadIDs) == 0 {
		return []ActivityRecord{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT lead_id::text, action, author, created_at
		FROM lead_activity
		WHERE lead_id = ANY($1::uuid[])
		ORDER BY lead_id, created_at ASC, id ASC
	`, leadIDs)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	items := make([]ActivityRecord, 0)
	for rows.Next() {
		var item ActivityRecord
		if err := rows.Scan(&item.LeadID, &item.Action, &item.Author, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// ListCalls returns call history, newest first, optionally for one employee.
func (r *Repository) ListCalls(ctx context.Context, employeeID *string) ([]CallRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, COALESCE(lead_id::text, ''), employee_id::text, status, created_at
		FROM calls
		WHERE ($1::uuid IS NULL OR employee_id = $1::uuid)
		ORDER BY created_at DESC
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	items := make([]CallRecord, 0)
	for rows.Next() {
		var item CallRecord
		if err := rows.Scan(&item.ID, &item.LeadID, &item.EmployeeID, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// ListEmployeeStats returns the roster with current load, counted as
// assigned leads that are neither booked nor lost.
func (r *Repository) ListEmployeeStats(ctx context.Context) ([]domain.EmployeeStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.id::text, e.name, e.role,
			COUNT(l.id)::int AS current_load,
			e.performance_score::float8, e.expertise, e.is_available
		FROM employees e
		LEFT JOIN leads l ON l.assigned_to = e.id
			AND lower(l.status) NOT IN ('booked', 'lost')
		GROUP BY e.id
		ORDER BY e.created_at ASC, e.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query employee stats: %w", err)
	}
	defer rows.Close()

	items := make([]domain.EmployeeStats, 0)
	for rows.Next() {
		var item domain.EmployeeStats
		if err := rows.Scan(&item.ID, &item.Name, &item.Role, &item.CurrentLoad, &item.PerformanceScore, &item.Expertise, &item.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan employee stats: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// AssignLead sets the lead's assignee and records the change in its
// activity log.
func (r *Repository) AssignLead(ctx context.Context, leadID, employeeID, author string) error {
	tag, err := r.db.Exec(ctx, `
		WITH updated AS (
			UPDATE leads
			SET assigned_to = $2::uuid, updated_at = now()
			WHERE id = $1::uuid
			RETURNING id
		)
		INSERT INTO lead_activity (lead_id, action, author)
		SELECT id, 'Assigned', $3 FROM updated
	`, leadID, employeeID, author)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("assign lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
