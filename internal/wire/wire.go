package wire

import (
	"net/http"

	"hall-booking/internal/adaptor"
	"hall-booking/internal/data/repository"
	"hall-booking/internal/usecase"
	"hall-booking/pkg/middleware"
	"hall-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the router and the services behind it
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Deps are the optional infrastructure pieces. A nil Redis client disables
// rate limiting; zero Options fall back to no-op publisher and cache.
type Deps struct {
	Redis   *redis.Client
	Options usecase.Options
}

// Wiring builds services, handlers and routes
func Wiring(repo *repository.Repository, config *utils.Config, deps Deps, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, deps.Options, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, config, deps, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	deps Deps,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	}))

	auth := middleware.AuthSession(service.Auth, logger)
	staff := middleware.Staff(logger)
	limit := middleware.RateLimit(config.RateLimit, deps.Redis, logger)

	wireAuth(r, handler.Auth, auth, limit)
	wireHall(r, handler.Hall)
	wireBooking(r, handler.Booking, auth, limit)
	wireStaff(r, handler.Staff, auth, staff)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
