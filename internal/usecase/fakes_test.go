package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/permission"
	"cinema-backoffice/pkg/queue"
	"cinema-backoffice/pkg/schedule"
	"cinema-backoffice/pkg/utils"

	"github.com/google/uuid"
)

var testNow = time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)

// store is an in-memory stand-in for Postgres. The Repository built from it
// has no Transactor, so WithinTx runs the callback inline.
type store struct {
	mu sync.Mutex

	users     map[uuid.UUID]*entity.User
	sessions  map[string]*entity.Session
	movies    map[uuid.UUID]*entity.Movie
	theaters  map[uuid.UUID]*entity.Theater
	studios   map[uuid.UUID]*entity.Studio
	showtimes map[uuid.UUID]*entity.Showtime

	lockedStudios  []uuid.UUID
	overlapQueries int
	failWith       error
}

func newStore() *store {
	return &store{
		users:     map[uuid.UUID]*entity.User{},
		sessions:  map[string]*entity.Session{},
		movies:    map[uuid.UUID]*entity.Movie{},
		theaters:  map[uuid.UUID]*entity.Theater{},
		studios:   map[uuid.UUID]*entity.Studio{},
		showtimes: map[uuid.UUID]*entity.Showtime{},
	}
}

func (s *store) repository() *repository.Repository {
	return &repository.Repository{
		User:     &fakeUserRepo{s},
		Session:  &fakeSessionRepo{s},
		Movie:    &fakeMovieRepo{s},
		Theater:  &fakeTheaterRepo{s},
		Studio:   &fakeStudioRepo{s},
		Showtime: &fakeShowtimeRepo{s},
	}
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func (s *store) addMovie(title string, duration int, active bool) *entity.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &entity.Movie{
		Base:        entity.NewBase(testNow),
		Title:       title,
		Genres:      []string{"Drama"},
		Duration:    duration,
		Rating:      entity.RatingPG13,
		ReleaseDate: testNow,
		IsActive:    active,
	}
	s.movies[m.ID] = m
	return clone(m)
}

func (s *store) addTheater(name, city string) *entity.Theater {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &entity.Theater{
		Base:     entity.NewBase(testNow),
		Name:     name,
		Slug:     utils.Slugify(name),
		Address:  "Jl. Sudirman 1",
		City:     city,
		IsActive: true,
	}
	s.theaters[t.ID] = t
	return clone(t)
}

func (s *store) addStudio(theaterID uuid.UUID, name string, price int) *entity.Studio {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &entity.Studio{
		Base:      entity.NewBase(testNow),
		TheaterID: theaterID,
		Name:      name,
		Capacity:  120,
		Price:     price,
	}
	s.studios[st.ID] = st
	return clone(st)
}

func (s *store) addShowtime(movie *entity.Movie, studioID uuid.UUID, start time.Time) *entity.Showtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := schedule.NewWindow(start, movie.Duration)
	if err != nil {
		panic(err)
	}
	st := &entity.Showtime{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		MovieID:      movie.ID,
		StudioID:     studioID,
		StartTime:    w.Start,
		EndTime:      w.End,
		Price:        40000,
	}
	s.showtimes[st.ID] = st
	return clone(st)
}

func (s *store) addUser(email string, role permission.Role, active bool) *entity.User {
	hash, err := utils.HashPassword("secret123")
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := &entity.User{
		Base:         entity.NewBase(testNow),
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		IsActive:     active,
	}
	s.users[u.ID] = u
	return clone(u)
}

func (s *store) showtime(id uuid.UUID) *entity.Showtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.showtimes[id]
	if !ok {
		return nil
	}
	return clone(st)
}

func (s *store) showtimeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.showtimes)
}

func (s *store) user(id uuid.UUID) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return clone(u)
}

func (s *store) activeSessions(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			n++
		}
	}
	return n
}

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, user.Email) {
			return apperror.Conflict("User with this email already exists")
		}
	}
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return clone(u), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, filter entity.UserFilter, _ repository.ListParams) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if u.DeletedAt != nil {
			continue
		}
		if filter.Role != nil && string(u.Role) != *filter.Role {
			continue
		}
		out = append(out, clone(u))
	}
	return out, nil
}

func (r *fakeUserRepo) CountAll(ctx context.Context, filter entity.UserFilter) (int64, error) {
	users, err := r.FindAll(ctx, filter, repository.ListParams{})
	return int64(len(users)), err
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.LastLoginAt = &at
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return fmt.Errorf("user not found")
	}
	now := testNow
	u.DeletedAt = &now
	u.IsActive = false
	return nil
}

type fakeSessionRepo struct{ s *store }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.TokenHash] = clone(session)
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, tokenHash string, now time.Time) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[tokenHash]
	if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(now) {
		return nil, nil
	}
	return clone(sess), nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, tokenHash string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[tokenHash]
	if !ok || sess.RevokedAt != nil {
		return false, nil
	}
	now := testNow
	sess.RevokedAt = &now
	return true, nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := testNow
	for _, sess := range r.s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			sess.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for hash, sess := range r.s.sessions {
		if sess.ExpiresAt.Before(before) || (sess.RevokedAt != nil && sess.RevokedAt.Before(before)) {
			delete(r.s.sessions, hash)
			n++
		}
	}
	return n, nil
}

type fakeMovieRepo struct{ s *store }

func (r *fakeMovieRepo) Create(_ context.Context, movie *entity.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movies[movie.ID] = clone(movie)
	return nil
}

func (r *fakeMovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	m, ok := r.s.movies[id]
	if !ok || m.DeletedAt != nil {
		return nil, nil
	}
	return clone(m), nil
}

func (r *fakeMovieRepo) FindByTitle(_ context.Context, title string) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movies {
		if m.DeletedAt == nil && strings.EqualFold(m.Title, title) {
			return clone(m), nil
		}
	}
	return nil, nil
}

func (r *fakeMovieRepo) Update(_ context.Context, movie *entity.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movies[movie.ID] = clone(movie)
	return nil
}

func (r *fakeMovieRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movies[id]
	if !ok || m.DeletedAt != nil {
		return fmt.Errorf("movie not found")
	}
	now := testNow
	m.DeletedAt = &now
	return nil
}

func (r *fakeMovieRepo) FindAll(_ context.Context, filter entity.MovieFilter, _ repository.ListParams) ([]*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movie
	for _, m := range r.s.movies {
		if m.DeletedAt != nil {
			continue
		}
		if filter.Genre != nil && !slices.Contains(m.Genres, *filter.Genre) {
			continue
		}
		if filter.IsActive != nil && m.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, clone(m))
	}
	return out, nil
}

func (r *fakeMovieRepo) CountAll(ctx context.Context, filter entity.MovieFilter) (int64, error) {
	movies, err := r.FindAll(ctx, filter, repository.ListParams{})
	return int64(len(movies)), err
}

type fakeTheaterRepo struct{ s *store }

func (r *fakeTheaterRepo) Create(_ context.Context, theater *entity.Theater) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.theaters[theater.ID] = clone(theater)
	return nil
}

func (r *fakeTheaterRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Theater, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.theaters[id]
	if !ok || t.DeletedAt != nil {
		return nil, nil
	}
	return clone(t), nil
}

func (r *fakeTheaterRepo) FindBySlug(_ context.Context, slug string) (*entity.Theater, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.theaters {
		if t.DeletedAt == nil && t.Slug == slug {
			return clone(t), nil
		}
	}
	return nil, nil
}

func (r *fakeTheaterRepo) Update(_ context.Context, theater *entity.Theater) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.theaters[theater.ID] = clone(theater)
	return nil
}

func (r *fakeTheaterRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.theaters[id]
	if !ok || t.DeletedAt != nil {
		return fmt.Errorf("theater not found")
	}
	now := testNow
	t.DeletedAt = &now
	t.IsActive = false
	return nil
}

func (r *fakeTheaterRepo) FindAll(_ context.Context, filter entity.TheaterFilter, _ repository.ListParams) ([]*entity.Theater, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Theater
	for _, t := range r.s.theaters {
		if t.DeletedAt != nil {
			continue
		}
		if filter.City != nil && !strings.EqualFold(t.City, *filter.City) {
			continue
		}
		out = append(out, clone(t))
	}
	return out, nil
}

func (r *fakeTheaterRepo) CountAll(ctx context.Context, filter entity.TheaterFilter) (int64, error) {
	theaters, err := r.FindAll(ctx, filter, repository.ListParams{})
	return int64(len(theaters)), err
}

type fakeStudioRepo struct{ s *store }

func (r *fakeStudioRepo) Create(_ context.Context, studio *entity.Studio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.studios[studio.ID] = clone(studio)
	return nil
}

func (r *fakeStudioRepo) find(id uuid.UUID) *entity.Studio {
	st, ok := r.s.studios[id]
	if !ok || st.DeletedAt != nil {
		return nil
	}
	if t, ok := r.s.theaters[st.TheaterID]; !ok || t.DeletedAt != nil {
		return nil
	}
	return clone(st)
}

func (r *fakeStudioRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Studio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(id), nil
}

func (r *fakeStudioRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.Studio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lockedStudios = append(r.s.lockedStudios, id)
	return r.find(id), nil
}

func (r *fakeStudioRepo) Lock(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.studios[id]; !ok {
		return fmt.Errorf("studio %s not found", id)
	}
	r.s.lockedStudios = append(r.s.lockedStudios, id)
	return nil
}

func (r *fakeStudioRepo) FindByTheaterID(_ context.Context, theaterID uuid.UUID) ([]*entity.Studio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Studio
	for _, st := range r.s.studios {
		if st.TheaterID == theaterID && st.DeletedAt == nil {
			out = append(out, clone(st))
		}
	}
	slices.SortFunc(out, func(a, b *entity.Studio) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *fakeStudioRepo) Update(_ context.Context, studio *entity.Studio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.studios[studio.ID] = clone(studio)
	return nil
}

func (r *fakeStudioRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.studios[id]
	if !ok || st.DeletedAt != nil {
		return fmt.Errorf("studio not found")
	}
	now := testNow
	st.DeletedAt = &now
	return nil
}

func (r *fakeStudioRepo) DeleteByTheaterID(_ context.Context, theaterID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := testNow
	for _, st := range r.s.studios {
		if st.TheaterID == theaterID && st.DeletedAt == nil {
			st.DeletedAt = &now
			n++
		}
	}
	return n, nil
}

type fakeShowtimeRepo struct{ s *store }

func (r *fakeShowtimeRepo) Create(_ context.Context, showtime *entity.Showtime) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.showtimes[showtime.ID] = clone(showtime)
	return nil
}

func (r *fakeShowtimeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Showtime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.showtimes[id]
	if !ok {
		return nil, nil
	}
	return clone(st), nil
}

func (r *fakeShowtimeRepo) detail(st *entity.Showtime) *entity.ShowtimeDetail {
	d := &entity.ShowtimeDetail{Showtime: *st}
	if m, ok := r.s.movies[st.MovieID]; ok {
		d.Movie = entity.ShowtimeMovie{ID: m.ID, Title: m.Title, Duration: m.Duration, Rating: m.Rating, PosterURL: m.PosterURL}
	}
	if studio, ok := r.s.studios[st.StudioID]; ok {
		d.Studio = entity.ShowtimeStudio{ID: studio.ID, Name: studio.Name, Capacity: studio.Capacity}
		if t, ok := r.s.theaters[studio.TheaterID]; ok {
			d.Theater = entity.ShowtimeTheater{ID: t.ID, Name: t.Name, City: t.City}
		}
	}
	return d
}

func (r *fakeShowtimeRepo) FindDetailByID(_ context.Context, id uuid.UUID) (*entity.ShowtimeDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.showtimes[id]
	if !ok {
		return nil, nil
	}
	return r.detail(st), nil
}

func (r *fakeShowtimeRepo) matches(st *entity.Showtime, filter entity.ShowtimeFilter) bool {
	switch {
	case filter.MovieID != nil && st.MovieID != *filter.MovieID:
		return false
	case filter.StudioID != nil && st.StudioID != *filter.StudioID:
		return false
	case filter.TheaterID != nil && r.s.studios[st.StudioID].TheaterID != *filter.TheaterID:
		return false
	case filter.StartFrom != nil && st.StartTime.Before(*filter.StartFrom):
		return false
	case filter.StartUntil != nil && st.StartTime.After(*filter.StartUntil):
		return false
	}
	return true
}

func (r *fakeShowtimeRepo) FindAll(_ context.Context, filter entity.ShowtimeFilter, _ repository.ListParams) ([]*entity.ShowtimeDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ShowtimeDetail
	for _, st := range r.s.showtimes {
		if r.matches(st, filter) {
			out = append(out, r.detail(st))
		}
	}
	slices.SortFunc(out, func(a, b *entity.ShowtimeDetail) int { return a.StartTime.Compare(b.StartTime) })
	return out, nil
}

func (r *fakeShowtimeRepo) CountAll(_ context.Context, filter entity.ShowtimeFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, st := range r.s.showtimes {
		if r.matches(st, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeShowtimeRepo) FindOverlapping(_ context.Context, studioID uuid.UUID, start, end time.Time, exclude uuid.UUID) ([]schedule.Occupancy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.overlapQueries++
	var out []schedule.Occupancy
	for _, st := range r.s.showtimes {
		if st.StudioID != studioID || st.ID == exclude {
			continue
		}
		if st.StartTime.Before(end) && st.EndTime.After(start) {
			out = append(out, schedule.Occupancy{
				ID:     st.ID,
				Title:  r.s.movies[st.MovieID].Title,
				Window: schedule.Window{Start: st.StartTime, End: st.EndTime},
			})
		}
	}
	slices.SortFunc(out, func(a, b schedule.Occupancy) int { return a.Window.Start.Compare(b.Window.Start) })
	return out, nil
}

func (r *fakeShowtimeRepo) Update(_ context.Context, showtime *entity.Showtime) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.showtimes[showtime.ID]; !ok {
		return fmt.Errorf("showtime not found")
	}
	r.s.showtimes[showtime.ID] = clone(showtime)
	return nil
}

func (r *fakeShowtimeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.showtimes[id]; !ok {
		return fmt.Errorf("showtime not found")
	}
	delete(r.s.showtimes, id)
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []queue.ShowtimeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, routingKey)
	if ev, ok := event.(queue.ShowtimeEvent); ok {
		p.events = append(p.events, ev)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var errBoom = errors.New("boom")

func newSession(userID uuid.UUID, hash string) *entity.Session {
	return &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: testNow},
		UserID:     userID,
		TokenHash:  hash,
		ExpiresAt:  testNow.Add(24 * time.Hour),
	}
}
