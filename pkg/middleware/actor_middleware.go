package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hulujobs/hulujobs-sdk/pkg/authz"
	"github.com/hulujobs/hulujobs-sdk/pkg/composables"
)

const (
	actorIDHeader      = "X-Actor-ID"
	actorSubjectHeader = "X-Actor-Subject"
)

// ProvideActor attaches the authenticated admin identity to the request
// context. Identity verification itself happens upstream at the gateway;
// this layer only carries the already-verified headers to the authorization
// guard. Requests without an actor header pass through anonymous and are
// rejected by enforcement, not here.
func ProvideActor() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(actorIDHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			subject := strings.TrimSpace(r.Header.Get(actorSubjectHeader))
			if subject == "" {
				subject = authz.SubjectForUser(id)
			}
			ctx := composables.WithActor(r.Context(), composables.Actor{ID: id, Subject: subject})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
