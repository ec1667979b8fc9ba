package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salescrm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type CreateActivityParams struct {
	LeadID    uuid.UUID
	ContactID *uuid.UUID
	Type      domain.ActivityType
	Result    *domain.ActivityResult
	Notes     *string
	Timestamp *time.Time
}

// ContactSummary is the slice of a contact shown next to an activity.
type ContactSummary struct {
	ID    uuid.UUID
	Name  string
	Title *string
}

// ActivityWithContact is an activity joined with its contact, if any.
type ActivityWithContact struct {
	domain.Activity
	Contact *ContactSummary
}

// LogActivity appends an activity and, when outcome is set, applies the
// automation result to the lead in the same transaction.
func (r *Repository) LogActivity(ctx context.Context, params CreateActivityParams, outcome *OutcomeUpdate) (domain.Activity, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("begin activity tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var result *string
	if params.Result != nil {
		s := string(*params.Result)
		result = &s
	}

	var (
		activity domain.Activity
		typ      string
		res      *string
	)
	err = tx.QueryRow(ctx, `
		INSERT INTO activities (id, lead_id, contact_id, type, result, notes, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
		RETURNING id, lead_id, contact_id, type, result, notes, timestamp
	`, uuid.New(), params.LeadID, params.ContactID, string(params.Type), result, params.Notes, params.Timestamp).Scan(
		&activity.ID, &activity.LeadID, &activity.ContactID, &typ, &res, &activity.Notes, &activity.Timestamp,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			if pgErr.ConstraintName == "activities_contact_id_fkey" {
				return domain.Activity{}, ErrContactNotFound
			}
			return domain.Activity{}, ErrNotFound
		}
		return domain.Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	activity.Type = domain.ActivityType(typ)
	activity.Result = toResult(res)

	if outcome != nil {
		if err := applyOutcome(ctx, tx, params.LeadID, *outcome); err != nil {
			return domain.Activity{}, err
		}
	} else if _, err := tx.Exec(ctx, `UPDATE leads SET updated_at = now() WHERE id = $1`, params.LeadID); err != nil {
		return domain.Activity{}, fmt.Errorf("touch lead: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Activity{}, fmt.Errorf("commit activity tx: %w", err)
	}
	return activity, nil
}

// ListActivities returns a lead's activity history, most recent first.
func (r *Repository) ListActivities(ctx context.Context, leadID uuid.UUID) ([]ActivityWithContact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.lead_id, a.contact_id, a.type, a.result, a.notes, a.timestamp,
			c.name, c.title
		FROM activities a
		LEFT JOIN contacts c ON c.id = a.contact_id
		WHERE a.lead_id = $1
		ORDER BY a.timestamp DESC
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	items := make([]ActivityWithContact, 0)
	for rows.Next() {
		var (
			item         ActivityWithContact
			typ          string
			res          *string
			contactName  *string
			contactTitle *string
		)
		if err := rows.Scan(
			&item.ID, &item.LeadID, &item.ContactID, &typ, &res, &item.Notes, &item.Timestamp,
			&contactName, &contactTitle,
		); err != nil {
			return nil, err
		}
		item.Type = domain.ActivityType(typ)
		item.Result = toResult(res)
		if item.ContactID != nil && contactName != nil {
			item.Contact = &ContactSummary{ID: *item.ContactID, Name: *contactName, Title: contactTitle}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// LatestActivities returns the most recent activity of each listed lead.
// Leads without activities are absent from the map.
func (r *Repository) LatestActivities(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID]domain.Activity, error) {
	result := make(map[uuid.UUID]domain.Activity, len(leadIDs))
	if len(leadIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (lead_id) id, lead_id, contact_id, type, result, notes, timestamp
		FROM activities
		WHERE lead_id = ANY($1)
		ORDER BY lead_id, timestamp DESC
	`, leadIDs)
	if err != nil {
		return nil, fmt.Errorf("latest activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a   domain.Activity
			typ string
			res *string
		)
		if err := rows.Scan(&a.ID, &a.LeadID, &a.ContactID, &typ, &res, &a.Notes, &a.Timestamp); err != nil {
			return nil, err
		}
		a.Type = domain.ActivityType(typ)
		a.Result = toResult(res)
		result[a.LeadID] = a
	}
	return result, rows.Err()
}

func toResult(raw *string) *domain.ActivityResult {
	if raw == nil {
		return nil
	}
	r := domain.ActivityResult(*raw)
	return &r
}
