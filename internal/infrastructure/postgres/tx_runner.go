package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Prospectos-api/internal/application/leads"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

// Ensure TxRunner implements leads.ConversionTxRunner.
var _ leads.ConversionTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunConversion inicia una transacción read-committed, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback. El bloqueo de fila lo toma LeadRepository.GetForUpdate.
func (r *TxRunner) RunConversion(ctx context.Context, fn func(
	leadRepo repository.LeadRepository,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	contactRepo repository.ContactRepository,
	interactionRepo repository.InteractionRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewLeadRepository(tx),
		NewUserRepository(tx),
		NewCompanyRepository(tx),
		NewContactRepository(tx),
		NewInteractionRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
