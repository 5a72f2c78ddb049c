package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

var _ repository.InteractionRepository = (*InteractionRepo)(nil)

var interactionFields = []string{
	"id", "lead_id", "company_id", "contact_id", "type", "title", "description", "outcome",
	"next_action", "next_action_date", "next_action_completed", "created_by_id", "created_at", "updated_at",
}

// interactionColumnsAliased antepone el alias de tabla a cada columna.
func interactionColumnsAliased(alias string) string {
	cols := make([]string, len(interactionFields))
	for i, f := range interactionFields {
		cols[i] = alias + "." + f
	}
	return strings.Join(cols, ", ")
}

// InteractionRepo implementación de InteractionRepository (usable con pool o tx).
type InteractionRepo struct {
	q Querier
}

// NewInteractionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInteractionRepository(q Querier) *InteractionRepo {
	return &InteractionRepo{q: q}
}

func interactionDest(it *entity.Interaction, typ *string) []any {
	return []any{
		&it.ID, &it.LeadID, &it.CompanyID, &it.ContactID, typ, &it.Title, &it.Description, &it.Outcome,
		&it.NextAction, &it.NextActionDate, &it.NextActionCompleted, &it.CreatedByID, &it.CreatedAt, &it.UpdatedAt,
	}
}

func scanInteraction(row rowScanner) (*entity.Interaction, error) {
	var it entity.Interaction
	var typ string
	if err := row.Scan(interactionDest(&it, &typ)...); err != nil {
		return nil, err
	}
	it.Type = entity.InteractionType(typ)
	return &it, nil
}

// Create persiste una interacción.
func (r *InteractionRepo) Create(ctx context.Context, it *entity.Interaction) error {
	query := `
		INSERT INTO interactions (` + strings.Join(interactionFields, ", ") + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.LeadID, it.CompanyID, it.ContactID, string(it.Type), it.Title, it.Description, it.Outcome,
		it.NextAction, it.NextActionDate, it.NextActionCompleted, it.CreatedByID, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referencia inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// GetByID obtiene una interacción por ID.
func (r *InteractionRepo) GetByID(ctx context.Context, id string) (*entity.Interaction, error) {
	query := `SELECT ` + strings.Join(interactionFields, ", ") + ` FROM interactions WHERE id = $1`
	it, err := scanInteraction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get interaction: %w", err)
	}
	return it, nil
}

const detailJoins = `
		FROM interactions i
		LEFT JOIN contacts c ON c.id = i.contact_id
		LEFT JOIN users u ON u.id = i.created_by_id`

func detailColumns() string {
	return interactionColumnsAliased("i") + `,
		c.id, c.name, c.position, c.phone, c.email, u.id, u.name, u.email`
}

func scanInteractionDetail(row rowScanner) (*entity.InteractionDetail, error) {
	var d entity.InteractionDetail
	var typ string
	var cID, cName, cPosition, cPhone, cEmail *string
	var uID, uName, uEmail *string
	dest := append(interactionDest(&d.Interaction, &typ), &cID, &cName, &cPosition, &cPhone, &cEmail, &uID, &uName, &uEmail)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	d.Type = entity.InteractionType(typ)
	if cID != nil {
		d.Contact = &entity.Contact{ID: *cID, Name: deref(cName), Position: deref(cPosition), Phone: deref(cPhone), Email: deref(cEmail)}
	}
	if uID != nil {
		d.Author = &entity.UserSummary{ID: *uID, Name: deref(uName), Email: deref(uEmail)}
	}
	return &d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetDetail obtiene la interacción con contacto y autor.
func (r *InteractionRepo) GetDetail(ctx context.Context, id string) (*entity.InteractionDetail, error) {
	query := `SELECT ` + detailColumns() + detailJoins + ` WHERE i.id = $1`
	d, err := scanInteractionDetail(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get interaction detail: %w", err)
	}
	return d, nil
}

// List lista interacciones con filtros, más nueva primero.
func (r *InteractionRepo) List(ctx context.Context, f repository.InteractionFilter, limit, offset int) ([]*entity.InteractionDetail, error) {
	query := `SELECT ` + detailColumns() + detailJoins + ` WHERE 1=1`
	args := []any{}
	pos := 1
	if f.LeadID != "" {
		query += fmt.Sprintf(" AND i.lead_id = $%d", pos)
		args = append(args, f.LeadID)
		pos++
	}
	if f.CompanyID != "" {
		query += fmt.Sprintf(" AND i.company_id = $%d", pos)
		args = append(args, f.CompanyID)
		pos++
	}
	if f.ContactID != "" {
		query += fmt.Sprintf(" AND i.contact_id = $%d", pos)
		args = append(args, f.ContactID)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND i.type = $%d", pos)
		args = append(args, string(f.Type))
		pos++
	}
	if f.VisibleTo != "" {
		query += " AND " + ownedByClause("i", pos)
		args = append(args, f.VisibleTo)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, listErr("list interactions", err)
	}
	defer rows.Close()
	var list []*entity.InteractionDetail
	for rows.Next() {
		d, err := scanInteractionDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, listErr("list interactions", err)
	}
	return list, nil
}

// UpdateFollowUp persiste outcome y los campos de próxima acción.
func (r *InteractionRepo) UpdateFollowUp(ctx context.Context, it *entity.Interaction) error {
	query := `
		UPDATE interactions SET outcome = $2, next_action = $3, next_action_date = $4,
			next_action_completed = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		it.ID, it.Outcome, it.NextAction, it.NextActionDate, it.NextActionCompleted, it.UpdatedAt)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update interaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkActionCompleted marca la próxima acción como completada; repetirlo no falla.
func (r *InteractionRepo) MarkActionCompleted(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE interactions SET next_action_completed = TRUE, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("complete interaction action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPendingActions próximas acciones no completadas con fecha anterior a `before`.
func (r *InteractionRepo) ListPendingActions(ctx context.Context, leadID string, before time.Time) ([]*entity.Interaction, error) {
	query := `
		SELECT ` + strings.Join(interactionFields, ", ") + `
		FROM interactions
		WHERE lead_id = $1
		  AND next_action <> ''
		  AND next_action_completed = FALSE
		  AND next_action_date IS NOT NULL
		  AND next_action_date < $2
		ORDER BY next_action_date`
	rows, err := r.q.Query(ctx, query, leadID, before)
	if err != nil {
		return nil, fmt.Errorf("list pending actions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Interaction
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// ReparentToCompany mueve las interacciones del lead a la empresa.
func (r *InteractionRepo) ReparentToCompany(ctx context.Context, leadID, companyID string) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE interactions SET company_id = $2, lead_id = NULL, updated_at = now() WHERE lead_id = $1`,
		leadID, companyID)
	if err != nil {
		return 0, fmt.Errorf("reparent interactions: %w", err)
	}
	return tag.RowsAffected(), nil
}
