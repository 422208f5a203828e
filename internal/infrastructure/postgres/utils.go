package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation vérifie si l'erreur est une violation de contrainte unique (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullIfEmpty mappe "" vers NULL pour les colonnes optionnelles.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
