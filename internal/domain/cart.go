package domain

import "time"

type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId"`
	UserID    *string    `json:"userId,omitempty"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Items     []CartItem `json:"items,omitempty"`
}

// CartItem is one perfume line in a cart. UnitPriceCents is resolved from the
// perfume's size-tiered prices at read time, not stored on the line.
type CartItem struct {
	ID             string     `json:"id"`
	CartID         string     `json:"cartId"`
	PerfumeID      string     `json:"perfumeId"`
	PerfumeName    string     `json:"perfumeName"`
	Brand          string     `json:"brand"`
	Size           BottleSize `json:"size"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int64      `json:"unitPriceCents"`
	CreatedAt      time.Time  `json:"createdAt"`
}
