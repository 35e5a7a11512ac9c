// Package api wires HTTP routes, middleware and handlers into a single
// http.Handler.
package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gatherly/server/internal/api/handlers"
	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/config"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/registrations"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/gatherly/server/internal/images"
	"github.com/gatherly/server/internal/metrics"
	"github.com/gatherly/server/internal/storage/postgres"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter assembles the full handler tree. The caller owns the pool's
// lifecycle; the router only borrows it.
func NewRouter(cfg config.Config, logger zerolog.Logger, repo *postgres.Repository, db handlers.Pinger) http.Handler {
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	usersService := users.NewService(repo.Users(), tokens)
	eventsService := events.NewService(repo.Events())
	registrationsService := registrations.NewService(repo.Registrations(), repo.Events())

	env := cfg.Environment
	usersHandler := handlers.NewUsersHandler(usersService, env)
	eventsHandler := handlers.NewEventsHandler(eventsService, env)
	registrationsHandler := handlers.NewRegistrationsHandler(registrationsService, env)
	imagesHandler := handlers.NewImagesHandler(images.NewResolver(cfg.Images.Root), env)
	healthHandler := handlers.NewHealthHandler(db)

	authed := middleware.RequireAuth(tokens, env)
	optional := middleware.OptionalAuth(tokens)

	// One limiter store shared by every route; tier wrappers run outside it
	// so the limiter sees the tagged context.
	limit := middleware.RateLimit(cfg.RateLimit)
	public := limit
	authTier := chain(middleware.WithRateLimitTierHandler(middleware.TierAuth), limit)
	loginTier := chain(middleware.WithRateLimitTierHandler(middleware.TierLogin), limit)

	mux := http.NewServeMux()

	mux.Handle("/healthz", http.HandlerFunc(healthHandler.Liveness))
	mux.Handle("/readyz", http.HandlerFunc(healthHandler.Readiness))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/api/users/register", methodMux(map[string]http.Handler{
		http.MethodPost: public(http.HandlerFunc(usersHandler.Register)),
	}))
	mux.Handle("/api/users/login", methodMux(map[string]http.Handler{
		http.MethodPost: loginTier(http.HandlerFunc(usersHandler.Login)),
	}))
	mux.Handle("/api/users/me", methodMux(map[string]http.Handler{
		http.MethodGet: authed(authTier(http.HandlerFunc(usersHandler.Me))),
	}))
	mux.Handle("/api/users", methodMux(map[string]http.Handler{
		http.MethodGet:  authed(authTier(http.HandlerFunc(usersHandler.List))),
		http.MethodPost: authed(authTier(http.HandlerFunc(usersHandler.Create))),
	}))
	mux.Handle("/api/users/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    authed(authTier(http.HandlerFunc(usersHandler.Show))),
		http.MethodDelete: authed(authTier(http.HandlerFunc(usersHandler.Delete))),
	}))

	mux.Handle("/api/events", methodMux(map[string]http.Handler{
		http.MethodGet:  public(http.HandlerFunc(eventsHandler.ListPublished)),
		http.MethodPost: authed(authTier(http.HandlerFunc(eventsHandler.Create))),
	}))
	mux.Handle("/api/events/my", methodMux(map[string]http.Handler{
		http.MethodGet: authed(authTier(http.HandlerFunc(eventsHandler.ListMine))),
	}))
	mux.Handle("/api/events/search", methodMux(map[string]http.Handler{
		http.MethodGet: public(http.HandlerFunc(eventsHandler.Search)),
	}))
	mux.Handle("/api/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    optional(public(http.HandlerFunc(eventsHandler.Show))),
		http.MethodPut:    authed(authTier(http.HandlerFunc(eventsHandler.Update))),
		http.MethodDelete: authed(authTier(http.HandlerFunc(eventsHandler.Delete))),
	}))

	mux.Handle("/api/registerEvent/my", methodMux(map[string]http.Handler{
		http.MethodGet: authed(authTier(http.HandlerFunc(registrationsHandler.ListMine))),
	}))
	mux.Handle("/api/registerEvent/{id}", methodMux(map[string]http.Handler{
		http.MethodPost:   authed(authTier(http.HandlerFunc(registrationsHandler.Register))),
		http.MethodDelete: authed(authTier(http.HandlerFunc(registrationsHandler.Unregister))),
	}))

	mux.Handle("/EventImage/{eventId}/{filename}", methodMux(map[string]http.Handler{
		http.MethodGet: public(http.HandlerFunc(imagesHandler.Serve)),
	}))

	var handler http.Handler = mux
	handler = middleware.RequestSize()(handler)
	handler = middleware.CORS()(handler)
	handler = middleware.Metrics()(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func chain(outer, inner func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return outer(inner(next))
	}
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
