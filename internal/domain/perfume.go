package domain

import "time"

// BottleSize identifies the sold fraction of a perfume bottle.
type BottleSize string

const (
	Size5ml  BottleSize = "5ml"
	Size10ml BottleSize = "10ml"
	SizeFull BottleSize = "full"
)

// ValidSize reports whether s is one of the sizes the store sells.
func ValidSize(s BottleSize) bool {
	switch s {
	case Size5ml, Size10ml, SizeFull:
		return true
	}
	return false
}

type Perfume struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand"`
	Notes          string    `json:"notes,omitempty"`
	PriceFullCents int64     `json:"priceFullCents"`
	Price5mlCents  *int64    `json:"price5mlCents,omitempty"`
	Price10mlCents *int64    `json:"price10mlCents,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}
