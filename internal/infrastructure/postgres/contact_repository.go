package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

const contactColumns = `id, lead_id, company_id, name, position, phone, email, is_primary, notes, created_at, updated_at`

// ContactRepo implementación de ContactRepository (usable con pool o tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

func scanContact(row rowScanner) (*entity.Contact, error) {
	var c entity.Contact
	if err := row.Scan(&c.ID, &c.LeadID, &c.CompanyID, &c.Name, &c.Position, &c.Phone, &c.Email,
		&c.IsPrimary, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un contacto.
func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.LeadID, c.CompanyID, c.Name, c.Position, c.Phone, c.Email, c.IsPrimary, c.Notes,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: lead o empresa inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto por ID.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	c, err := scanContact(r.q.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// List lista contactos del lead o empresa; principal primero.
func (r *ContactRepo) List(ctx context.Context, f repository.ContactFilter, limit, offset int) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE 1=1`
	args := []any{}
	pos := 1
	if f.LeadID != "" {
		query += fmt.Sprintf(" AND lead_id = $%d", pos)
		args = append(args, f.LeadID)
		pos++
	}
	if f.CompanyID != "" {
		query += fmt.Sprintf(" AND company_id = $%d", pos)
		args = append(args, f.CompanyID)
		pos++
	}
	if f.VisibleTo != "" {
		query += " AND " + ownedByClause("contacts", pos)
		args = append(args, f.VisibleTo)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY is_primary DESC, name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, listErr("list contacts", err)
	}
	defer rows.Close()
	var list []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, listErr("list contacts", err)
	}
	return list, nil
}

// ReparentToCompany mueve los contactos del lead a la empresa.
func (r *ContactRepo) ReparentToCompany(ctx context.Context, leadID, companyID string) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE contacts SET company_id = $2, lead_id = NULL, updated_at = now() WHERE lead_id = $1`,
		leadID, companyID)
	if err != nil {
		return 0, fmt.Errorf("reparent contacts: %w", err)
	}
	return tag.RowsAffected(), nil
}
