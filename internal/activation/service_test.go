package activation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"productflow/internal/audit"
	"productflow/internal/token"
	"productflow/pkg/config"
	"productflow/pkg/faults"
	"productflow/pkg/secrets"
)

func newService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"access_token":"tok-issued"}`))
	})
	mux.HandleFunc("/activate", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		ProductURL:        srv.URL + "/activate",
		ProductCode:       "PC-1",
		ProductName:       "N",
		TenantID:          "tenant-1",
		SubscriptionKey:   "K",
		Referer:           "https://host.example",
		FallbackAuthToken: "static-tok",
	}
	conf := map[string]string{
		"token_url":     srv.URL + "/token",
		"user_email":    "svc@example.com",
		"user_password": "pw",
		"client_id":     "cid",
	}
	log := zap.NewNop().Sugar()
	issuer := token.NewIssuer(secrets.NewResolver(nil, conf, log), &http.Client{}, log)
	return NewService(cfg, issuer, &http.Client{}, audit.NewJournal(nil, log), log), srv
}

func TestStartEnrichesPayloadLocally(t *testing.T) {
	var gotHeader http.Header
	var body map[string]any
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"productFlowInstanceId":"F1","popupOnly":true}`))
	})

	p, err := svc.Start(context.Background())
	require.NoError(t, err)
	// apiKey/authToken/productName are injected locally, never by the API.
	require.Equal(t, &Payload{
		FlowInstanceID: "F1",
		PopupOnly:      true,
		APIKey:         "K",
		AuthToken:      "tok-issued",
		ProductName:    "N",
	}, p)

	require.Equal(t, "Bearer tok-issued", gotHeader.Get("Authorization"))
	require.Equal(t, "tenant-1", gotHeader.Get("X-Authenticated-Tenantid"))
	require.Equal(t, "K", gotHeader.Get("Ocp-Apim-Subscription-Key"))
	require.Equal(t, "https://host.example", gotHeader.Get("Referer"))
	require.Equal(t, map[string]any{
		"productCode":   "PC-1",
		"productName":   "N",
		"isUserPresent": true,
	}, body)
}

func TestStartUpstreamRejected(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	})

	p, err := svc.Start(context.Background())
	require.Nil(t, p)
	require.True(t, faults.IsKind(err, faults.UpstreamRejected))
	var f *faults.Fault
	require.ErrorAs(t, err, &f)
	require.Equal(t, http.StatusForbidden, f.Status)
}

func TestStartMalformedResponse(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>`))
	})

	p, err := svc.Start(context.Background())
	require.Nil(t, p)
	require.True(t, faults.IsKind(err, faults.MalformedResponse))
}

func TestStartTransportFailure(t *testing.T) {
	svc, srv := newService(t, func(http.ResponseWriter, *http.Request) {})
	srv.Close()

	_, err := svc.Start(context.Background())
	require.True(t, faults.IsKind(err, faults.TransportFailure))
}
