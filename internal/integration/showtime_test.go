package integration_test

import (
	"sync"
	"testing"
	"time"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ShowtimeSuite struct {
	BaseSuite
}

func TestShowtimeSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	suite.Run(t, new(ShowtimeSuite))
}

func (s *ShowtimeSuite) create(movieID, studioID string, start time.Time) error {
	_, err := s.app.Service.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
		MovieID:   movieID,
		StudioID:  studioID,
		StartTime: start.Format(time.RFC3339),
	})
	return err
}

// race releases n creates at once. Every start lies within the first window,
// so all n windows overlap pairwise.
func (s *ShowtimeSuite) race(c catalog, n int) (succeeded, conflicts int) {
	start := slot(10)
	errs := make([]error, n)
	ready := make(chan struct{})

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ready
			errs[i] = s.create(c.movieID, c.studioID, start.Add(time.Duration(i)*5*time.Minute))
		}()
	}
	close(ready)
	wg.Wait()

	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperror.KindOf(err) == apperror.KindConflict:
			conflicts++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	return succeeded, conflicts
}

func (s *ShowtimeSuite) TestTwoConcurrentOverlappingCreates() {
	c := s.seedCatalog()

	succeeded, conflicts := s.race(c, 2)
	s.Equal(1, succeeded)
	s.Equal(1, conflicts)
	s.Equal(0, s.overlappingPairs())
}

func (s *ShowtimeSuite) TestManyConcurrentOverlappingCreates() {
	c := s.seedCatalog()

	succeeded, conflicts := s.race(c, 10)
	s.Equal(1, succeeded)
	s.Equal(9, conflicts)
	s.Equal(1, s.count())
}

func (s *ShowtimeSuite) TestConcurrentCreatesAcrossStudios() {
	c := s.seedCatalog()

	var wg sync.WaitGroup
	for i := range 24 {
		studio := c.studioID
		if i%2 == 1 {
			studio = c.studio2ID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			// every 40 minutes over 8 hours, most of them collide
			_ = s.create(c.movieID, studio, slot(8).Add(time.Duration(i/2)*40*time.Minute))
		}()
	}
	wg.Wait()

	s.Positive(s.count())
	s.Equal(0, s.overlappingPairs())
}

func (s *ShowtimeSuite) TestBackToBackIsAllowed() {
	c := s.seedCatalog()

	s.Require().NoError(s.create(c.movieID, c.studioID, slot(10)))
	s.Require().NoError(s.create(c.movieID, c.studioID, slot(12).Add(15*time.Minute)))
	s.Require().NoError(s.create(c.movieID, c.studioID, slot(7).Add(45*time.Minute)))

	err := s.create(c.movieID, c.studioID, slot(14))
	s.ErrorIs(err, apperror.ErrConflict)
	s.Contains(err.Error(), `Conflict with "Morning Show"`)
	s.Equal(3, s.count())
}

func (s *ShowtimeSuite) TestExclusionConstraintBacksTheCheck() {
	c := s.seedCatalog()
	s.Require().NoError(s.create(c.movieID, c.studioID, slot(10)))

	var movieID, studioID uuid.UUID
	s.Require().NoError(s.db.QueryRow(s.ctx, "SELECT movie_id, studio_id FROM showtimes").Scan(&movieID, &studioID))

	// straight through the repository, skipping the lock and the overlap query
	now := time.Now().UTC()
	err := s.repo.Showtime.Create(s.ctx, &entity.Showtime{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MovieID:      movieID,
		StudioID:     studioID,
		StartTime:    slot(11),
		EndTime:      slot(13),
	})
	s.ErrorIs(err, apperror.ErrConflict)
	s.Equal(1, s.count())

	// [start, end) leaves the end instant free
	err = s.repo.Showtime.Create(s.ctx, &entity.Showtime{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MovieID:      movieID,
		StudioID:     studioID,
		StartTime:    slot(12).Add(15*time.Minute),
		EndTime:      slot(13),
	})
	s.NoError(err)
}

func (s *ShowtimeSuite) TestConcurrentUpdatesIntoTheSameSlot() {
	c := s.seedCatalog()

	first, err := s.app.Service.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
		MovieID: c.movieID, StudioID: c.studioID, StartTime: slot(8).Format(time.RFC3339),
	})
	s.Require().NoError(err)
	second, err := s.app.Service.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
		MovieID: c.movieID, StudioID: c.studioID, StartTime: slot(16).Format(time.RFC3339),
	})
	s.Require().NoError(err)

	target := slot(12).Format(time.RFC3339)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.app.Service.Showtime.UpdateShowtime(s.ctx, id, &request.ShowtimeUpdateRequest{StartTime: &target})
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			s.ErrorIs(err, apperror.ErrConflict)
			failed++
		}
	}
	s.Equal(1, failed)
	s.Equal(0, s.overlappingPairs())
}

func (s *ShowtimeSuite) TestDeleteFreesTheSlot() {
	c := s.seedCatalog()

	created, err := s.app.Service.Showtime.CreateShowtime(s.ctx, &request.ShowtimeRequest{
		MovieID: c.movieID, StudioID: c.studioID, StartTime: slot(10).Format(time.RFC3339),
	})
	s.Require().NoError(err)
	s.True(slot(12).Add(15 * time.Minute).Equal(created.EndTime))

	s.Require().NoError(s.app.Service.Showtime.DeleteShowtime(s.ctx, created.ID))
	s.NoError(s.create(c.movieID, c.studioID, slot(11)))
}

func (s *ShowtimeSuite) count() int {
	var n int
	s.Require().NoError(s.db.QueryRow(s.ctx, "SELECT count(*) FROM showtimes").Scan(&n))
	return n
}

func (s *ShowtimeSuite) overlappingPairs() int {
	var n int
	err := s.db.QueryRow(s.ctx, `
		SELECT count(*)
		FROM showtimes a
		JOIN showtimes b ON a.studio_id = b.studio_id AND a.id < b.id
		WHERE a.start_time < b.end_time AND b.start_time < a.end_time`).Scan(&n)
	s.Require().NoError(err)
	return n
}

