package onboarding

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestHandlerValidatesInput(t *testing.T) {
	b := newBackend()
	srv := b.serve()
	defer srv.Close()

	r := chi.NewRouter()
	RegisterHTTP(r, newService(srv.URL, b))

	for _, body := range []string{
		`{`,
		`{}`,
		`{"firstName":"Ada","lastName":"","email":"ada@example.com"}`,
		`{"firstName":"  ","lastName":"Lovelace","email":"ada@example.com"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/v1/onboarding", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	require.Empty(t, b.creates)
}

func TestHandlerReturnsOutcome(t *testing.T) {
	b := newBackend()
	srv := b.serve()
	defer srv.Close()

	r := chi.NewRouter()
	RegisterHTTP(r, newService(srv.URL, b))

	req := httptest.NewRequest(http.MethodPost, "/v1/onboarding",
		strings.NewReader(`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"partyId":"P123"`)
	require.Contains(t, rec.Body.String(), `"success":true`)
}

func TestHandlerReportsFailureInOutcome(t *testing.T) {
	b := newBackend()
	b.associateStatus = http.StatusInternalServerError
	srv := b.serve()
	defer srv.Close()

	r := chi.NewRouter()
	RegisterHTTP(r, newService(srv.URL, b))

	req := httptest.NewRequest(http.MethodPost, "/v1/onboarding",
		strings.NewReader(`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	// Failed orchestration is still a 200; the outcome carries the failure.
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":false`)
	require.Contains(t, rec.Body.String(), `"partyId":"P123"`)
}
