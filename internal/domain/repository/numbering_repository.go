package repository

// NumberingRepository est le compteur de numéros de facture.
//
// L'ancien système gardait le "dernier numéro" dans un stockage ambiant côté
// client, source documentée de doublons. Ici la réservation est un service
// explicite et atomique: deux appels concurrents ne rendent jamais le même
// numéro.
type NumberingRepository interface {
	// ReserveNext réserve et renvoie le prochain numéro de l'année, au format
	// AAAA-NNN (ex: 2026-042). Le numéro est consommé même si la facture
	// n'aboutit pas: un trou dans la séquence vaut mieux qu'un doublon.
	ReserveNext(year int) (string, error)
}
