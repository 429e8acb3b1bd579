package entity

// Addon is rentable equipment added to a reservation (racket, ball machine, ...).
type Addon struct {
	BaseSimple
	Name     string `db:"name"`
	Price    int64  `db:"price"` // currency minor units per slot
	IsActive bool   `db:"is_active"`
}
