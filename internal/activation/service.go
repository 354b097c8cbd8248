// internal/activation/service.go
package activation

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"productflow/internal/audit"
	"productflow/internal/token"
	"productflow/pkg/config"
	"productflow/pkg/faults"
	"productflow/pkg/httpclient"
)

// Payload is handed to the caller after a successful activation. ApiKey,
// AuthToken and ProductName are never returned by the remote API — they are
// injected from local configuration for downstream use.
type Payload struct {
	FlowInstanceID string `json:"productFlowInstanceId"`
	PopupOnly      bool   `json:"popupOnly"`
	APIKey         string `json:"apiKey"`
	AuthToken      string `json:"authToken"`
	ProductName    string `json:"productName"`
}

type startRequest struct {
	ProductCode   string `json:"productCode"`
	ProductName   string `json:"productName"`
	IsUserPresent bool   `json:"isUserPresent"`
}

type startResponse struct {
	FlowInstanceID string `json:"productFlowInstanceId"`
	PopupOnly      bool   `json:"popupOnly"`
}

// Service starts a product-activation flow with a single downstream call.
// Activation is read-like: re-invocation is safe.
type Service struct {
	cfg     config.Config
	issuer  *token.Issuer
	client  *http.Client
	journal *audit.Journal
	log     *zap.SugaredLogger
}

func NewService(cfg config.Config, issuer *token.Issuer, client *http.Client, journal *audit.Journal, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, issuer: issuer, client: client, journal: journal, log: log}
}

// Start activates the configured product and maps the response into a
// Payload. Failures come back as faults; callers surface a generic failure
// without raw internals.
func (s *Service) Start(ctx context.Context) (*Payload, error) {
	return s.Activate(ctx, s.cfg.ProductCode, s.cfg.ProductName)
}

func (s *Service) Activate(ctx context.Context, productCode, productName string) (*Payload, error) {
	const op = "activation.start"
	start := time.Now()

	bearer := s.issuer.Bearer(ctx, s.cfg.FallbackAuthToken)
	headers := map[string]string{
		"Authorization":             "Bearer " + bearer,
		"X-Authenticated-TenantId":  s.cfg.TenantID,
		"Ocp-Apim-Subscription-Key": s.cfg.SubscriptionKey,
		"Referer":                   s.cfg.Referer,
	}
	body := startRequest{ProductCode: productCode, ProductName: productName, IsUserPresent: true}

	status, resp, err := httpclient.PostJSON(ctx, s.client, s.cfg.ProductURL, headers, body)
	if err != nil {
		s.fail(ctx, start, err)
		return nil, faults.Transport(op, err)
	}
	if status/100 != 2 {
		s.log.Errorw("activation rejected", "status", status, "body", string(resp))
		f := faults.Rejected(op, status, string(resp))
		s.fail(ctx, start, f)
		return nil, f
	}

	var out startResponse
	if err := json.Unmarshal(resp, &out); err != nil {
		f := faults.Malformed(op, err)
		s.fail(ctx, start, f)
		return nil, f
	}

	p := &Payload{
		FlowInstanceID: out.FlowInstanceID,
		PopupOnly:      out.PopupOnly,
		APIKey:         s.cfg.SubscriptionKey,
		AuthToken:      bearer,
		ProductName:    productName,
	}
	s.log.Infow("product flow started", "flowInstanceId", p.FlowInstanceID)
	s.journal.Record(ctx, audit.Entry{
		Operation: "activation",
		Status:    "SUCCEEDED",
		Message:   "flow " + p.FlowInstanceID,
		Duration:  time.Since(start),
	})
	return p, nil
}

func (s *Service) fail(ctx context.Context, start time.Time, err error) {
	s.journal.Record(ctx, audit.Entry{
		Operation: "activation",
		Status:    "FAILED",
		Message:   err.Error(),
		Duration:  time.Since(start),
	})
}
