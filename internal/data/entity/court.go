package entity

type CourtType string

const (
	CourtTypeIndoor  CourtType = "indoor"
	CourtTypeOutdoor CourtType = "outdoor"
)

type Court struct {
	Base
	Name      string    `db:"name"`
	Type      CourtType `db:"type"`
	BasePrice int64     `db:"base_price"` // currency minor units
	IsActive  bool      `db:"is_active"`
}
