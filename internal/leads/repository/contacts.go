package repository

import (
	"context"
	"fmt"

	"salescrm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const contactColumns = `id, lead_id, name, title, email, phone, linkedin_url, is_primary`

type CreateContactParams struct {
	LeadID      uuid.UUID
	Name        string
	Title       *string
	Email       *string
	Phone       *string
	LinkedInURL *string
	IsPrimary   bool
}

func scanContact(row rowScanner) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.LeadID, &c.Name, &c.Title, &c.Email, &c.Phone, &c.LinkedInURL, &c.IsPrimary)
	return c, err
}

// CreateContact inserts a contact. A new primary contact demotes the lead's
// previous primary in the same transaction.
func (r *Repository) CreateContact(ctx context.Context, params CreateContactParams) (domain.Contact, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Contact{}, fmt.Errorf("begin contact tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if params.IsPrimary {
		if _, err := tx.Exec(ctx, `UPDATE contacts SET is_primary = FALSE WHERE lead_id = $1 AND is_primary`, params.LeadID); err != nil {
			return domain.Contact{}, fmt.Errorf("demote primary contact: %w", err)
		}
	}

	contact, err := scanContact(tx.QueryRow(ctx, `
		INSERT INTO contacts (id, lead_id, name, title, email, phone, linkedin_url, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+contactColumns,
		uuid.New(), params.LeadID, params.Name, params.Title, params.Email, params.Phone, params.LinkedInURL, params.IsPrimary,
	))
	if err != nil {
		return domain.Contact{}, fmt.Errorf("insert contact: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE leads SET updated_at = now() WHERE id = $1`, params.LeadID); err != nil {
		return domain.Contact{}, fmt.Errorf("touch lead: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Contact{}, fmt.Errorf("commit contact tx: %w", err)
	}
	return contact, nil
}

// ListContacts returns a lead's contacts, primary first.
func (r *Repository) ListContacts(ctx context.Context, leadID uuid.UUID) ([]domain.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE lead_id = $1
		ORDER BY is_primary DESC, name ASC
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ListContactsByLeadIDs groups the contacts of several leads by lead id.
func (r *Repository) ListContactsByLeadIDs(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]domain.Contact, error) {
	result := make(map[uuid.UUID][]domain.Contact, len(leadIDs))
	if len(leadIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE lead_id = ANY($1)
		ORDER BY lead_id, is_primary DESC, name ASC
	`, leadIDs)
	if err != nil {
		return nil, fmt.Errorf("list contacts by lead: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result[c.LeadID] = append(result[c.LeadID], c)
	}
	return result, rows.Err()
}
