package entity

import "time"

// Client représente un client MYCONFORT (particulier ou professionnel).
type Client struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Address     string
	PostalCode  string
	City        string
	HousingType string // maison, appartement... (utile à la livraison)
	DoorCode    string
	SIRET       string // renseigné uniquement pour les professionnels
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
