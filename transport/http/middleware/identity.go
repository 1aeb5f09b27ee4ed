package middleware

import (
	"context"
	"net/http"
	"slices"

	"atrium/shared/constant"
	"atrium/shared/failure"
	"atrium/transport/http/response"

	"github.com/rs/zerolog/log"
)

// Identity reads the caller identity headers set by the upstream auth
// gateway and stores them in the request context. Requests without a
// user id are rejected; token verification itself happens upstream.
type Identity interface {
	Resolve(next http.Handler) http.Handler
	RequireRoles(roles ...string) func(http.Handler) http.Handler
}

type identityImpl struct{}

func NewIdentity() Identity {
	return &identityImpl{}
}

func (i *identityImpl) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(constant.RequestHeaderUserID)
		if userID == constant.Empty {
			log.Warn().Str("path", r.URL.Path).Msg("request without identity headers")
			response.WithError(w, failure.Unauthorized("missing user identity"))

			return
		}

		ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, userID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, r.Header.Get(constant.RequestHeaderUserRole))
		ctx = context.WithValue(ctx, constant.ContextKeyOrgID, r.Header.Get(constant.RequestHeaderOrgID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (i *identityImpl) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)

			if !slices.Contains(roles, role) {
				response.WithError(w, failure.ForbiddenError)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
