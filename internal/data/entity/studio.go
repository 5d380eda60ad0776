package entity

import "github.com/google/uuid"

type Studio struct {
	Base
	TheaterID uuid.UUID `db:"theater_id"`
	Name      string    `db:"name"`
	Capacity  int       `db:"capacity"`
	Price     int       `db:"price"`
}
