package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/scheduling"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("lead not found")
	ErrContactNotFound = errors.New("contact not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, company_name, website, industry_trade, locations, employee_estimate,
	does_public_works, union_likely, multi_jobsite, current_stack, pain_signals,
	score, score_reasons, recommended_angle, stage, status, next_action, next_action_date,
	do_not_contact, created_at, updated_at`

type CreateLeadParams struct {
	CompanyName      string
	Website          *string
	IndustryTrade    *string
	Locations        *string
	EmployeeEstimate *int
	DoesPublicWorks  domain.TriState
	UnionLikely      domain.TriState
	MultiJobsite     domain.TriState
	CurrentStack     *string
	PainSignals      *string
	Stage            domain.Stage
}

// UpdateLeadParams holds a partial update. Nil fields are left untouched.
type UpdateLeadParams struct {
	Website          *string
	IndustryTrade    *string
	Locations        *string
	EmployeeEstimate *int
	DoesPublicWorks  *domain.TriState
	UnionLikely      *domain.TriState
	MultiJobsite     *domain.TriState
	CurrentStack     *string
	PainSignals      *string
	Stage            *domain.Stage
}

// ScoreUpdate is the persisted output of the scoring engine.
type ScoreUpdate struct {
	Score   int
	Reasons []string
	Angle   string
}

// OutcomeUpdate is the persisted output of the automation engine.
type OutcomeUpdate struct {
	Status         string
	Stage          domain.Stage
	NextAction     *string
	NextActionDate *time.Time
	DoNotContact   bool
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (domain.Lead, error) {
	var (
		lead                             domain.Lead
		publicWorks, union, multi, stage string
		reasons                          *string
	)
	if err := row.Scan(
		&lead.ID, &lead.CompanyName, &lead.Website, &lead.IndustryTrade, &lead.Locations, &lead.EmployeeEstimate,
		&publicWorks, &union, &multi, &lead.CurrentStack, &lead.PainSignals,
		&lead.Score, &reasons, &lead.RecommendedAngle, &stage, &lead.Status, &lead.NextAction, &lead.NextActionDate,
		&lead.DoNotContact, &lead.CreatedAt, &lead.UpdatedAt,
	); err != nil {
		return domain.Lead{}, err
	}
	lead.DoesPublicWorks = domain.TriState(publicWorks)
	lead.UnionLikely = domain.TriState(union)
	lead.MultiJobsite = domain.TriState(multi)
	lead.Stage = domain.Stage(stage)
	lead.ScoreReasons = DecodeReasons(reasons)
	return lead, nil
}

func collectLeads(rows pgx.Rows) ([]domain.Lead, error) {
	defer rows.Close()
	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	stage := params.Stage
	if stage == "" {
		stage = domain.StageNew
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			id, company_name, website, industry_trade, locations, employee_estimate,
			does_public_works, union_likely, multi_jobsite, current_stack, pain_signals,
			score_reasons, stage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '[]', $12)
		RETURNING `+leadColumns,
		uuid.New(), params.CompanyName, params.Website, params.IndustryTrade, params.Locations, params.EmployeeEstimate,
		triOrUnknown(params.DoesPublicWorks), triOrUnknown(params.UnionLikely), triOrUnknown(params.MultiJobsite),
		params.CurrentStack, params.PainSignals, string(stage),
	)
	lead, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// List returns every lead, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return collectLeads(rows)
}

// ListQueueCandidates narrows the table to leads that could be in today's
// queue. The exact rule is applied by the queue package.
func (r *Repository) ListQueueCandidates(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE do_not_contact = FALSE
			AND stage NOT IN ('MEETING_SET', 'CLOSED_LOST')
	`)
	if err != nil {
		return nil, fmt.Errorf("list queue candidates: %w", err)
	}
	return collectLeads(rows)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.Website != nil, "website", params.Website},
		{params.IndustryTrade != nil, "industry_trade", params.IndustryTrade},
		{params.Locations != nil, "locations", params.Locations},
		{params.EmployeeEstimate != nil, "employee_estimate", params.EmployeeEstimate},
		{params.DoesPublicWorks != nil, "does_public_works", derefTri(params.DoesPublicWorks)},
		{params.UnionLikely != nil, "union_likely", derefTri(params.UnionLikely)},
		{params.MultiJobsite != nil, "multi_jobsite", derefTri(params.MultiJobsite)},
		{params.CurrentStack != nil, "current_stack", params.CurrentStack},
		{params.PainSignals != nil, "pain_signals", params.PainSignals},
		{params.Stage != nil, "stage", derefStage(params.Stage)},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, score ScoreUpdate) (domain.Lead, error) {
	reasons, err := encodeReasons(score.Reasons)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("encode score reasons: %w", err)
	}

	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET score = $2, score_reasons = $3, recommended_angle = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, score.Score, reasons, score.Angle,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("update lead score: %w", err)
	}
	return lead, nil
}

// SetDoNotContact stores the flag and closes the lead out of the pipeline.
// Clearing the flag keeps the lead CLOSED_LOST until its stage is edited.
func (r *Repository) SetDoNotContact(ctx context.Context, id uuid.UUID, doNotContact bool) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET do_not_contact = $2, status = $3, stage = $4,
			next_action = NULL, next_action_date = NULL, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, doNotContact, domain.StatusDoNotContact, string(domain.StageClosedLost),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("set lead do-not-contact: %w", err)
	}
	return lead, nil
}

// ApplyOutcome writes a pipeline outcome (status, stage and follow-up)
// outside of an activity. Used by imports.
func (r *Repository) ApplyOutcome(ctx context.Context, id uuid.UUID, outcome OutcomeUpdate) error {
	return applyOutcome(ctx, r.pool, id, outcome)
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// applyOutcome writes an automation outcome with db, a pool or a tx.
func applyOutcome(ctx context.Context, db execer, leadID uuid.UUID, outcome OutcomeUpdate) error {
	var nextDate *string
	if outcome.NextActionDate != nil {
		s := scheduling.FormatDate(*outcome.NextActionDate)
		nextDate = &s
	}

	tag, err := db.Exec(ctx, `
		UPDATE leads
		SET status = $2, stage = $3, next_action = $4, next_action_date = $5::date,
			do_not_contact = do_not_contact OR $6, updated_at = now()
		WHERE id = $1
	`, leadID, outcome.Status, string(outcome.Stage), outcome.NextAction, nextDate, outcome.DoNotContact)
	if err != nil {
		return fmt.Errorf("apply automation outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func triOrUnknown(t domain.TriState) string {
	if t == "" {
		return string(domain.TriUnknown)
	}
	return string(t)
}

func derefTri(t *domain.TriState) string {
	if t == nil {
		return string(domain.TriUnknown)
	}
	return triOrUnknown(*t)
}

func derefStage(s *domain.Stage) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
