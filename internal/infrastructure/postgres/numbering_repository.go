package postgres

import (
	"context"
	"fmt"

	"github.com/myconfort/facturation-api/internal/domain/repository"
)

var _ repository.NumberingRepository = (*NumberingRepo)(nil)

// NumberingRepo implémentation PostgreSQL du compteur de numéros de facture.
type NumberingRepo struct {
	q Querier
}

// NewNumberingRepository construit l'adaptateur. Passer un pool ou une tx (Querier).
func NewNumberingRepository(q Querier) *NumberingRepo {
	return &NumberingRepo{q: q}
}

// ReserveNext réserve atomiquement le prochain numéro de l'année en une seule
// requête: l'UPSERT incrémente le compteur et renvoie la nouvelle valeur.
// Deux transactions concurrentes sérialisent sur la ligne de l'année et ne
// peuvent pas obtenir le même numéro — c'était le bug de doublons de l'ancien
// compteur ambiant côté client.
func (r *NumberingRepo) ReserveNext(year int) (string, error) {
	query := `
		INSERT INTO invoice_numbering (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_number = invoice_numbering.last_number + 1
		RETURNING last_number`
	var n int
	if err := r.q.QueryRow(context.Background(), query, year).Scan(&n); err != nil {
		return "", fmt.Errorf("réserver le numéro de facture: %w", err)
	}
	return fmt.Sprintf("%d-%03d", year, n), nil
}
