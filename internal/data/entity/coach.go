package entity

type Coach struct {
	BaseSimple
	Name      string `db:"name"`
	HourlyFee int64  `db:"hourly_fee"` // currency minor units
	IsActive  bool   `db:"is_active"`
}
