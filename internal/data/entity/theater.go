package entity

type Theater struct {
	Base
	Name     string  `db:"name"`
	Slug     string  `db:"slug"`
	Address  string  `db:"address"`
	City     string  `db:"city"`
	Phone    *string `db:"phone"`
	IsActive bool    `db:"is_active"`
}

type TheaterFilter struct {
	City     *string
	Search   *string
	IsActive *bool
}
