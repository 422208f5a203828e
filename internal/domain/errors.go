package domain

import "errors"

// Erreurs de domaine (sans dépendances externes).
var (
	ErrNotFound           = errors.New("ressource introuvable")
	ErrUserNotFound       = errors.New("utilisateur introuvable")
	ErrEmailAlreadyExists = errors.New("email déjà enregistré")
	ErrInvalidInput       = errors.New("entrée invalide")
	ErrDuplicate          = errors.New("ressource dupliquée")
	ErrUnauthorized       = errors.New("non autorisé")
	ErrForbidden          = errors.New("accès refusé")
	ErrConflict           = errors.New("conflit avec l'état courant")
	ErrNotSendable        = errors.New("facture non envoyable en l'état")
)
