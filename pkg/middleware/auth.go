// Package middleware provides HTTP middleware for actor
// authentication, request IDs, request logging, and panic recovery.
package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hospital-rp/staffd/pkg/contextkeys"
	"github.com/hospital-rp/staffd/pkg/httputil"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// ActorHeader carries the access code of the member performing the
// request.
const ActorHeader = "X-Access-Code"

// ActorLookup resolves an access code to a member.
type ActorLookup func(r *http.Request, code string) (*staff.Member, error)

// ActorMiddleware authenticates requests by the access code header and
// stores the resolved member in the request context.
func ActorMiddleware(lookup ActorLookup) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.Header.Get(ActorHeader)
			if code == "" {
				httputil.WriteUnauthorized(w, "missing "+ActorHeader+" header")
				return
			}

			actor, err := lookup(r, code)
			if err != nil {
				httputil.WriteUnauthorized(w, "invalid access code")
				return
			}

			ctx := contextkeys.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
