package usecase

import (
	"context"
	"testing"

	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/dto/response"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/utils"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateMovie(t *testing.T) {
	s := newStore()
	svc := NewMovieService(s.repository(), newImageStore(), utils.FixedClock{At: testNow}, zap.NewNop())

	resp, err := svc.CreateMovie(context.Background(), &request.MovieRequest{
		Title:       "  The Raid ",
		Genres:      []string{"Action", "Thriller"},
		Duration:    101,
		Rating:      "R",
		ReleaseDate: "2011-09-08",
	})
	require.NoError(t, err)

	want := response.MovieResponse{
		Title:       "The Raid",
		Genres:      []string{"Action", "Thriller"},
		Duration:    101,
		Rating:      "R",
		ReleaseDate: "2011-09-08",
		IsActive:    true,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	if diff := cmp.Diff(want, *resp, cmpopts.IgnoreFields(response.MovieResponse{}, "ID")); diff != "" {
		t.Errorf("CreateMovie() mismatch (-want +got):\n%s", diff)
	}

	_, err = svc.CreateMovie(context.Background(), &request.MovieRequest{
		Title:       "the raid",
		Genres:      []string{"Action"},
		Duration:    90,
		Rating:      "R",
		ReleaseDate: "2011-09-08",
	})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.EqualError(t, err, "Movie with this title already exists")

	_, err = svc.CreateMovie(context.Background(), &request.MovieRequest{
		Title:       "Unknown Genre",
		Genres:      []string{"Musical"},
		Duration:    90,
		Rating:      "PG",
		ReleaseDate: "2011-09-08",
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "genres[0]")
}

func TestUpdateMovie(t *testing.T) {
	s := newStore()
	svc := NewMovieService(s.repository(), newImageStore(), utils.FixedClock{At: testNow}, zap.NewNop())
	movie := s.addMovie("Pengabdi Setan", 107, true)
	s.addMovie("Gundala", 123, true)

	inactive := false
	resp, err := svc.UpdateMovie(context.Background(), movie.ID.String(), &request.MovieUpdateRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.Equal(t, "Pengabdi Setan", resp.Title, "omitted fields are kept")

	// changing only the case of its own title is allowed
	title := "PENGABDI SETAN"
	_, err = svc.UpdateMovie(context.Background(), movie.ID.String(), &request.MovieUpdateRequest{Title: &title})
	require.NoError(t, err)

	taken := "gundala"
	_, err = svc.UpdateMovie(context.Background(), movie.ID.String(), &request.MovieUpdateRequest{Title: &taken})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, svc.DeleteMovie(context.Background(), movie.ID.String()))
	_, err = svc.GetMovieByID(context.Background(), movie.ID.String())
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.EqualError(t, err, "Movie not found")
}

func TestGetMovies(t *testing.T) {
	s := newStore()
	svc := NewMovieService(s.repository(), newImageStore(), utils.FixedClock{At: testNow}, zap.NewNop())
	s.addMovie("A", 90, true)
	s.addMovie("B", 90, false)

	active := true
	resp, err := svc.GetMovies(context.Background(), &request.MovieListRequest{PaginatedRequest: firstPage, IsActive: &active})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
}

func TestTheaterLifecycle(t *testing.T) {
	s := newStore()
	clock := utils.FixedClock{At: testNow}
	theaters := NewTheaterService(s.repository(), clock, zap.NewNop())
	studios := NewStudioService(s.repository(), clock, zap.NewNop())

	theater, err := theaters.CreateTheater(context.Background(), &request.TheaterRequest{
		Name:    "Plaza Senayan XXI",
		Address: "Jl. Asia Afrika 8",
		City:    "Jakarta",
	})
	require.NoError(t, err)
	assert.Equal(t, "plaza-senayan-xxi", theater.Slug)
	assert.True(t, theater.IsActive)

	_, err = theaters.CreateTheater(context.Background(), &request.TheaterRequest{
		Name:    "Plaza  Senayan XXI!",
		Address: "Somewhere else",
		City:    "Jakarta",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict, "names with the same slug collide")

	studio, err := studios.CreateStudio(context.Background(), theater.ID, &request.StudioRequest{Name: "Studio 1", Capacity: 150, Price: 50000})
	require.NoError(t, err)

	_, err = studios.CreateStudio(context.Background(), theater.ID, &request.StudioRequest{Name: "studio 1", Capacity: 80, Price: 40000})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.EqualError(t, err, "Studio with this name already exists in the theater")

	_, err = studios.CreateStudio(context.Background(), theater.ID, &request.StudioRequest{Name: "Studio 2", Capacity: 80, Price: 40000})
	require.NoError(t, err)

	detail, err := theaters.GetTheaterByID(context.Background(), theater.ID)
	require.NoError(t, err)
	require.Len(t, detail.Studios, 2)
	assert.Equal(t, "Studio 1", detail.Studios[0].Name)

	// a studio is only reachable through its own theater
	other := s.addTheater("Other", "Bandung")
	_, err = studios.GetStudioByID(context.Background(), other.ID.String(), studio.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, theaters.DeleteTheater(context.Background(), theater.ID))
	_, err = theaters.GetTheaterByID(context.Background(), theater.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	id, err := uuid.Parse(studio.ID)
	require.NoError(t, err)
	assert.NotNil(t, s.studios[id].DeletedAt, "studios are retired with their theater")
}
