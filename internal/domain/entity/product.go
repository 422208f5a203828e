package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product représente un produit du catalogue MYCONFORT (literie).
type Product struct {
	ID        string
	Name      string
	Category  string          // Matelas, Sur-matelas, Couette, Oreiller, Plateau...
	PriceTTC  decimal.Decimal // prix public TTC
	CreatedAt time.Time
	UpdatedAt time.Time
}
