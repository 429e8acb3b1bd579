package middleware

import (
	"net/http"

	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity extracts the caller identity set by the upstream gateway.
// Authentication happens before this service; the headers are trusted
// as already verified.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requesterHeader := r.Header.Get("X-Requester-ID")
			if requesterHeader == "" {
				utils.ResponseUnauthorized(w, "Missing requester identity")
				return
			}

			requesterID, err := uuid.Parse(requesterHeader)
			if err != nil {
				logger.Warn("Malformed requester identity",
					zap.String("requester_id", requesterHeader),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseUnauthorized(w, "Invalid requester identity")
				return
			}

			isAdmin := r.Header.Get("X-Requester-Admin") == "true"

			ctx := utils.SetRequesterContext(r.Context(), requesterID, isAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin requires the admin flag set by Identity.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requesterID, ok := utils.GetRequesterIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !utils.IsAdminFromContext(r.Context()) {
				logger.Warn("Non-admin access attempt",
					zap.String("requester_id", requesterID.String()),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
