package wire

import (
	"context"
	"fmt"
	"net/http"

	"cinema-backoffice/api"
	"cinema-backoffice/internal/adaptor"
	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/internal/usecase"
	"cinema-backoffice/pkg/database"
	"cinema-backoffice/pkg/middleware"
	"cinema-backoffice/pkg/queue"
	"cinema-backoffice/pkg/storage"
	"cinema-backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// UploadsPath is where stored images are served.
const UploadsPath = "/uploads"

// Deps are the long-lived resources opened by main.
type Deps struct {
	Repo      *repository.Repository
	DB        database.Querier
	Redis     redis.UniversalClient // nil disables rate limiting
	Publisher queue.Publisher
	Images    *storage.FileStore
	Clock     utils.Clock
	Config    *utils.Config
	Logger    *zap.Logger
}

// App holds the router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes.
func Wiring(ctx context.Context, deps Deps) (*App, error) {
	service := usecase.NewService(deps.Repo, deps.Config, deps.Publisher, deps.Images, deps.Clock, deps.Logger)
	handler := adaptor.NewHandler(service, deps.Logger)
	health := adaptor.NewHealthHandler(deps.DB, deps.Redis, deps.Clock, deps.Logger)

	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := api.Handler(doc)
	if err != nil {
		return nil, err
	}

	router := setupRouter(handler, health, docs, deps)

	return &App{
		Router:  router,
		Service: service,
	}, nil
}

type limiters struct {
	general func(http.Handler) http.Handler
	auth    func(http.Handler) http.Handler
}

func newLimiters(deps Deps) limiters {
	cfg := deps.Config.RateLimit
	if deps.Redis == nil || !cfg.Enabled {
		deps.Logger.Info("Rate limiting disabled")
		return limiters{general: middleware.Passthrough, auth: middleware.Passthrough}
	}

	return limiters{
		general: middleware.NewRateLimiter(deps.Redis, cfg.Prefix, "general", cfg.General, deps.Logger).Middleware,
		auth:    middleware.NewRateLimiter(deps.Redis, cfg.Prefix, "auth", cfg.Auth, deps.Logger).Middleware,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	health *adaptor.HealthHandler,
	docs http.HandlerFunc,
	deps Deps,
) *chi.Mux {
	r := chi.NewRouter()
	limit := newLimiters(deps)

	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.Origins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusMethodNotAllowed, false, "Method not allowed", nil, nil)
	})

	r.Handle(UploadsPath+"/*", http.StripPrefix(UploadsPath, deps.Images.Handler()))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Health)
		r.Get("/openapi.json", docs)

		r.Group(func(r chi.Router) {
			r.Use(limit.general)

			wireAuth(r, handler.Auth, limit.auth, deps)
			wireStaff(r, handler.Staff, deps)
			wireMovie(r, handler.Movie, deps)
			wireTheater(r, handler.Theater, handler.Studio, deps)
			wireShowtime(r, handler.Showtime, deps)
		})
	})

	return r
}
