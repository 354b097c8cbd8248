// internal/activation/handler.go
package activation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"productflow/pkg/faults"
)

// RegisterHTTP mounts the activation endpoint. Failures map to a generic
// upstream/internal error; raw diagnostics stay in the logs.
func RegisterHTTP(r chi.Router, svc *Service) {
	r.Post("/v1/product-flow/start", func(w http.ResponseWriter, req *http.Request) {
		p, err := svc.Start(req.Context())
		if err != nil {
			var f *faults.Fault
			if errors.As(err, &f) && (f.Kind == faults.UpstreamRejected || f.Kind == faults.TransportFailure) {
				http.Error(w, "product activation unavailable", http.StatusBadGateway)
				return
			}
			http.Error(w, "product activation failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p)
	})
}
