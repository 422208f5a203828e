package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/internal/domain/repository"
)

var _ invoicing.TxRunner = (*TxRunner)(nil)

// TxRunner exécute des callbacks dans une transaction PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construit le runner avec le pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInvoicing démarre une transaction couvrant numérotation et facturation,
// exécute fn avec des repos liés à la tx, puis Commit ou Rollback.
// La réservation du numéro et l'insertion en-tête + lignes sont donc atomiques.
func (r *TxRunner) RunInvoicing(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	numberingRepo repository.NumberingRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	numberingRepo := NewNumberingRepository(tx)

	if err := fn(invoiceRepo, numberingRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
