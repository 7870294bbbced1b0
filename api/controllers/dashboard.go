package controllers

import (
	"net/http"

	"github.com/angelmondragon/threadcart-backend/api/responses"
	"github.com/angelmondragon/threadcart-backend/internal/dashboard"
	"github.com/angelmondragon/threadcart-backend/pkg/logger"
)

// AdminDashboard serves the storefront admin overview. The payload is consumed
// by a legacy console that expects the snapshot at the top level and a bare
// {"msg"} body on failure, so it skips the standard envelope.
func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteRawError(w, http.StatusInternalServerError, "dashboard service unavailable")
			return
		}

		snapshot, err := svc.Snapshot(r.Context())
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "dashboard.snapshot", err)
			}
			responses.WriteRawError(w, http.StatusInternalServerError, "failed to load dashboard data")
			return
		}

		responses.WriteRaw(w, http.StatusOK, snapshot)
	}
}
