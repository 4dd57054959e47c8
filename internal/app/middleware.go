package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/moviehub/catalog-service/internal/domain"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userId := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
		if userId == 0 {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKeyUserId, userId)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

// requireAdmin must be chained after requireAuthentication.
func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := domain.Role(app.sessionManager.GetString(r.Context(), SessionKeyUserRole.String()))
		if !role.IsAtLeast(domain.RoleAdmin) {
			app.forbiddenResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// throttle caps how often one user can hit one endpoint. The counter
// key includes the current minute, so each window is a fresh key and
// the previous one just expires.
func (app *application) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.config.throttle.enabled {
			next.ServeHTTP(w, r)
			return
		}

		userId := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
		if userId == 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("throttle:%s_%s_%d_%d", r.Method, r.URL.Path, userId, time.Now().Minute())

		count, err := app.redis.Incr(r.Context(), key).Result()
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		if count == 1 {
			if err := app.redis.Expire(r.Context(), key, time.Minute).Err(); err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}
		}

		if count > int64(app.config.throttle.limit) {
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
