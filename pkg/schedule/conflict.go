package schedule

import "github.com/google/uuid"

// Occupancy is an existing showtime holding a window in a studio.
type Occupancy struct {
	ID     uuid.UUID
	Title  string
	Window Window
}

// FirstConflict returns the first occupancy whose window overlaps proposed.
// An occupancy with ID exclude is skipped; pass uuid.Nil to check against all.
func FirstConflict(existing []Occupancy, proposed Window, exclude uuid.UUID) (Occupancy, bool) {
	for _, occ := range existing {
		if exclude != uuid.Nil && occ.ID == exclude {
			continue
		}
		if occ.Window.Overlaps(proposed) {
			return occ, true
		}
	}
	return Occupancy{}, false
}
