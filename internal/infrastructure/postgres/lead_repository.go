package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadColumns = `id, company_name, tax_id, sector, website, employee_count, source, priority, status,
	estimated_value, assigned_to_id, notes, converted_to_company_id, converted_at, created_at, updated_at`

// LeadRepo implementación de LeadRepository (usable con pool o tx).
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var source, priority, status string
	if err := row.Scan(
		&l.ID, &l.CompanyName, &l.TaxID, &l.Sector, &l.Website, &l.EmployeeCount,
		&source, &priority, &status, &l.EstimatedValue, &l.AssignedToID, &l.Notes,
		&l.ConvertedToCompanyID, &l.ConvertedAt, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.Source = entity.LeadSource(source)
	l.Priority = entity.LeadPriority(priority)
	l.Status = entity.LeadStatus(status)
	return &l, nil
}

// Create persiste un nuevo lead.
func (r *LeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		lead.ID, lead.CompanyName, lead.TaxID, lead.Sector, lead.Website, lead.EmployeeCount,
		string(lead.Source), string(lead.Priority), string(lead.Status), lead.EstimatedValue,
		nullIfEmpty(lead.AssignedToID), lead.Notes, lead.ConvertedToCompanyID, lead.ConvertedAt,
		lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: assigned_to_id no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead por ID.
func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// GetForUpdate bloquea la fila hasta el fin de la tx.
func (r *LeadRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead for update: %w", err)
	}
	return l, nil
}

// List lista leads con filtros combinables y paginación.
func (r *LeadRepo) List(ctx context.Context, f repository.LeadFilter, limit, offset int) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	args := []any{}
	pos := 1
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(f.Status))
		pos++
	}
	if f.Priority != "" {
		query += fmt.Sprintf(" AND priority = $%d", pos)
		args = append(args, string(f.Priority))
		pos++
	}
	if f.AssignedTo != "" {
		query += fmt.Sprintf(" AND assigned_to_id = $%d", pos)
		args = append(args, f.AssignedTo)
		pos++
	}
	if f.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", pos)
		args = append(args, string(f.Source))
		pos++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND company_name ILIKE '%%' || $%d || '%%'", pos)
		args = append(args, f.Search)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, listErr("list leads", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, listErr("list leads", err)
	}
	return list, nil
}

// Update actualiza los campos editables del lead.
func (r *LeadRepo) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET company_name = $2, tax_id = $3, sector = $4, website = $5, employee_count = $6,
			source = $7, priority = $8, status = $9, estimated_value = $10, assigned_to_id = $11,
			notes = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		lead.ID, lead.CompanyName, lead.TaxID, lead.Sector, lead.Website, lead.EmployeeCount,
		string(lead.Source), string(lead.Priority), string(lead.Status), lead.EstimatedValue,
		nullIfEmpty(lead.AssignedToID), lead.Notes, lead.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: assigned_to_id no existe", domain.ErrInvalidInput)
		}
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkConverted solo afecta leads sin empresa asignada; 0 filas = conversión concurrente.
func (r *LeadRepo) MarkConverted(ctx context.Context, id, companyID string, at time.Time) error {
	query := `
		UPDATE leads SET status = $2, converted_to_company_id = $3, converted_at = $4, updated_at = $4
		WHERE id = $1 AND converted_to_company_id IS NULL`
	tag, err := r.q.Exec(ctx, query, id, string(entity.LeadStatusWon), companyID, at)
	if err != nil {
		return fmt.Errorf("mark lead converted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListAssignedWithRecent usa LATERAL para traer las `recent` interacciones más nuevas por lead.
func (r *LeadRepo) ListAssignedWithRecent(ctx context.Context, userID string, recent int) ([]*entity.LeadWithActivity, error) {
	leads, err := r.listAssigned(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(leads))
	byID := make(map[string]*entity.LeadWithActivity, len(leads))
	for _, l := range leads {
		ids = append(ids, l.ID)
		byID[l.ID] = l
	}

	query := `
		SELECT ` + interactionColumnsAliased("i") + `
		FROM unnest($1::uuid[]) AS l(id)
		CROSS JOIN LATERAL (
			SELECT * FROM interactions
			WHERE lead_id = l.id
			ORDER BY created_at DESC
			LIMIT $2
		) i
		ORDER BY i.created_at DESC`
	rows, err := r.q.Query(ctx, query, ids, recent)
	if err != nil {
		return nil, fmt.Errorf("list recent interactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if it.LeadID == nil {
			continue
		}
		if l, ok := byID[*it.LeadID]; ok {
			l.RecentInteractions = append(l.RecentInteractions, *it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepo) listAssigned(ctx context.Context, userID string) ([]*entity.LeadWithActivity, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE assigned_to_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list assigned leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.LeadWithActivity
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, &entity.LeadWithActivity{Lead: *l})
	}
	return list, rows.Err()
}
