// internal/onboarding/handler.go
package onboarding

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"productflow/pkg/middleware"
)

type onboardBody struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// RegisterHTTP mounts the onboarding endpoint. The outcome is returned with
// 200 either way; success/failure lives inside the outcome itself.
func RegisterHTTP(r chi.Router, svc *Service) {
	r.Post("/v1/onboarding", func(w http.ResponseWriter, req *http.Request) {
		var b onboardBody
		if err := json.NewDecoder(req.Body).Decode(&b); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		b.FirstName = strings.TrimSpace(b.FirstName)
		b.LastName = strings.TrimSpace(b.LastName)
		b.Email = strings.TrimSpace(b.Email)
		if b.FirstName == "" || b.LastName == "" || b.Email == "" {
			http.Error(w, "firstName, lastName and email are required", http.StatusBadRequest)
			return
		}
		svc.log.Debugw("onboarding requested", "requestId", middleware.RequestIDFrom(req.Context()))
		out := svc.Onboard(req.Context(), Input{FirstName: b.FirstName, LastName: b.LastName, Email: b.Email})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
}
