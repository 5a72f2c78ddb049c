package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Prospectos-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: la fila referenciada no existe.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// isInvalidID 22P02: el valor no es un uuid válido (p. ej. /api/leads/abc).
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}

// isNoRows incluye ids mal formados: tampoco resuelven ninguna fila.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidID(err)
}

// listErr un filtro con id mal formado es entrada inválida, no un fallo interno.
func listErr(op string, err error) error {
	if isInvalidID(err) {
		return fmt.Errorf("%w: identificador con formato inválido", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullIfEmpty convierte "" en NULL para columnas uuid opcionales.
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// ownedByClause fila colgada de un lead asignado o de una empresa gestionada por el usuario $pos.
// Compara como texto para que un id de actor mal formado no rompa la consulta.
func ownedByClause(alias string, pos int) string {
	return fmt.Sprintf(`(%[1]s.lead_id IN (SELECT id FROM leads WHERE assigned_to_id::text = $%[2]d)
		OR %[1]s.company_id IN (SELECT id FROM companies WHERE account_manager_id::text = $%[2]d))`, alias, pos)
}
