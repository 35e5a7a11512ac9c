package middleware

import (
	"context"
	"net/http"

	"github.com/gatherly/server/internal/api/apierror"
	"github.com/gatherly/server/internal/auth"
)

const actorKey contextKey = "actor"

// RequireAuth validates the bearer token and places the resulting actor
// into the request context. Requests without a valid token get 401.
func RequireAuth(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := actorFromRequest(manager, r)
			if err != nil {
				apierror.Write(w, r, http.StatusUnauthorized, "Unauthorized", err, env)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithActor(r.Context(), actor)))
		})
	}
}

// OptionalAuth resolves the actor when a valid bearer token is present and
// continues anonymously otherwise. Used where published resources are
// public but drafts need an identity check.
func OptionalAuth(manager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor, err := actorFromRequest(manager, r); err == nil {
				r = r.WithContext(contextWithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func actorFromRequest(manager *auth.JWTManager, r *http.Request) (*auth.Actor, error) {
	token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	claims, err := manager.Validate(token)
	if err != nil {
		return nil, err
	}
	actor := claims.Actor()
	return &actor, nil
}

func contextWithActor(ctx context.Context, actor *auth.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ContextWithActor adds an actor to a context (exported for handler tests).
func ContextWithActor(ctx context.Context, actor *auth.Actor) context.Context {
	return contextWithActor(ctx, actor)
}

// ActorFromContext retrieves the authenticated actor, or nil for anonymous
// requests.
func ActorFromContext(ctx context.Context) *auth.Actor {
	if ctx == nil {
		return nil
	}
	if actor, ok := ctx.Value(actorKey).(*auth.Actor); ok {
		return actor
	}
	return nil
}

// Actor retrieves the authenticated actor from the request.
func Actor(r *http.Request) *auth.Actor {
	if r == nil {
		return nil
	}
	return ActorFromContext(r.Context())
}
