package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/usecase"
	"cinema-backoffice/internal/wire"
	"cinema-backoffice/pkg/database"
	"cinema-backoffice/pkg/permission"
	"cinema-backoffice/pkg/queue"
	"cinema-backoffice/pkg/storage"
	"cinema-backoffice/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/zap"
)

const (
	rootEmail    = "root@cinema.test"
	rootPassword = "root-secret"
)

type BaseSuite struct {
	suite.Suite
	ctx         context.Context
	dbContainer *PostgresContainer
	db          database.PgxIface
	repo        *repository.Repository
	app         *wire.App
	rootID      uuid.UUID
}

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{Name: "cinema-backoffice-test"},
		JWT: utils.JWTConfig{
			Secret:             "integration-secret",
			Issuer:             "cinema-backoffice",
			AccessTTL:          time.Hour,
			RefreshTTL:         24 * time.Hour,
			RememberAccessTTL:  24 * time.Hour,
			RememberRefreshTTL: 7 * 24 * time.Hour,
		},
	}
}

func (s *BaseSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := getDbContainer(s.ctx)
	require.NoError(s.T(), err)
	s.dbContainer = container

	s.db, err = database.Connect(s.ctx, container.ConnectionString, 20)
	require.NoError(s.T(), err)

	log := zap.NewNop()
	s.repo = repository.NewRepository(s.db, log)
	s.app, err = wire.Wiring(s.ctx, wire.Deps{
		Repo:      s.repo,
		DB:        s.db,
		Publisher: queue.NopPublisher{},
		Images:    storage.NewFileStore(afero.NewMemMapFs(), wire.UploadsPath, log),
		Clock:     utils.SystemClock{},
		Config:    testConfig(),
		Logger:    log,
	})
	require.NoError(s.T(), err)
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container); err != nil {
			s.T().Logf("failed to terminate container: %s", err)
		}
	}
}

// SetupTest empties every table and seeds the super admin.
func (s *BaseSuite) SetupTest() {
	_, err := s.db.Exec(s.ctx, "TRUNCATE showtimes, studios, theaters, movies, sessions, users CASCADE")
	s.Require().NoError(err)

	created, err := s.app.Service.Staff.EnsureSuperAdmin(s.ctx, rootEmail, rootPassword, "Root")
	s.Require().NoError(err)
	s.Require().True(created)

	root, err := s.repo.User.FindByEmail(s.ctx, rootEmail)
	s.Require().NoError(err)
	s.rootID = root.ID
}

func (s *BaseSuite) root() usecase.Actor {
	return usecase.Actor{ID: s.rootID, Role: permission.RoleSuperAdmin}
}

type catalog struct {
	theaterID string
	studioID  string
	studio2ID string
	movieID   string // 120 minutes
}

func (s *BaseSuite) seedCatalog() catalog {
	svc := s.app.Service

	movie, err := svc.Movie.CreateMovie(s.ctx, &request.MovieRequest{
		Title:       "Morning Show",
		Genres:      []string{"Drama"},
		Duration:    120,
		Rating:      "PG-13",
		ReleaseDate: "2024-05-01",
	})
	s.Require().NoError(err)

	theater, err := svc.Theater.CreateTheater(s.ctx, &request.TheaterRequest{
		Name:    "Grand Indonesia",
		Address: "Jl. M.H. Thamrin 1",
		City:    "Jakarta",
	})
	s.Require().NoError(err)

	studio, err := svc.Studio.CreateStudio(s.ctx, theater.ID, &request.StudioRequest{Name: "Studio 1", Capacity: 150, Price: 50000})
	s.Require().NoError(err)
	studio2, err := svc.Studio.CreateStudio(s.ctx, theater.ID, &request.StudioRequest{Name: "Studio 2", Capacity: 90, Price: 45000})
	s.Require().NoError(err)

	return catalog{theaterID: theater.ID, studioID: studio.ID, studio2ID: studio2.ID, movieID: movie.ID}
}

// slot returns a whole hour at least two days ahead.
func slot(hour int) time.Time {
	day := time.Now().UTC().AddDate(0, 0, 2).Truncate(24 * time.Hour)
	return day.Add(time.Duration(hour) * time.Hour)
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *BaseSuite) call(method, target, token string, body any) (int, apiResponse) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.app.Router.ServeHTTP(rec, req)

	var resp apiResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func (s *BaseSuite) login(email, password string) string {
	status, resp := s.call(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	s.Require().Equal(http.StatusOK, status, resp.Message)

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.Unmarshal(resp.Data, &tokens))
	return tokens.AccessToken
}
