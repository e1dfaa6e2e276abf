package models

import "time"

// Assignment maps a sales rep to a customer they service. The core never
// enforces it referentially; it only drives dropdown-style lookups.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	SalesRep  string    `db:"sales_rep" json:"sales_rep"`
	Customer  string    `db:"customer" json:"customer"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
