package entity

import "time"

// Customer representa un cliente de facturación. El email es único en todo el sistema.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	Company   string
	TaxNumber string // NIT o identificación tributaria
	CreatedAt time.Time
	UpdatedAt time.Time
}
