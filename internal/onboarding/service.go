// internal/onboarding/service.go
package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"productflow/internal/audit"
	"productflow/internal/token"
	"productflow/pkg/config"
	"productflow/pkg/faults"
	"productflow/pkg/httpclient"
)

// accountType is the fixed downstream account classification code for users
// onboarded through this integration.
const accountType = 863480000

type Input struct {
	FirstName string
	LastName  string
	Email     string
}

// Outcome is the terminal result of one onboarding run. PartyID is populated
// as soon as the create step succeeds, so a failed associate step still shows
// the partially created user.
type Outcome struct {
	PartyID string `json:"partyId"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type signInName struct {
	Value string `json:"value"`
}

type createUserRequest struct {
	SignInNames []signInName `json:"signInNames"`
	GivenName   string       `json:"givenName"`
	Surname     string       `json:"surname"`
}

type createUserResponse struct {
	ID string `json:"id"`
}

type associateOptions struct {
	AssociatePartyWithTenant bool `json:"associatePartyWithTenant"`
	SendWelcomeEmail         bool `json:"sendWelcomeEmail"`
	Async                    bool `json:"async"`
}

type associateRequest struct {
	Name          string           `json:"name"`
	Surname       string           `json:"surname"`
	ContactNumber string           `json:"contactNumber"`
	Options       associateOptions `json:"options"`
	AccountType   int              `json:"accountType"`
}

// Service runs the two-phase create → associate workflow. Each invocation is
// self-contained: fresh token, fresh correlation id, own header set. The
// workflow is not idempotent — every run creates a new remote user.
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

// Onboard creates the remote user record, then associates it with the tenant.
// All failure kinds collapse into the returned Outcome; it never propagates an
// error to the caller.
func (s *Service) Onboard(ctx context.Context, in Input) Outcome {
	start := time.Now()
	correlationID := uuid.NewString()
	log := s.log.With("correlationId", correlationID, "email", in.Email)

	bearer := s.issuer.Bearer(ctx, s.cfg.FallbackAuthToken)
	headers := s.baseHeaders(correlationID, bearer)

	partyID, err := s.createUser(ctx, headers, in)
	if err != nil {
		log.Errorw("create user failed", "err", err)
		out := Outcome{Success: false, Message: fmt.Sprintf("Create user failed: %v", err)}
		s.record(ctx, correlationID, out, start)
		return out
	}
	log.Infow("user created", "partyId", partyID)

	// The associate call carries everything the create call sent plus the new
	// party id. Headers accumulate across the two steps; each step derives its
	// own map rather than mutating shared client state.
	headers = withHeader(headers, "X-Ls-Party-Id", partyID)

	if err := s.associateParty(ctx, headers, in); err != nil {
		log.Errorw("associate failed after user creation", "partyId", partyID, "err", err)
		out := Outcome{PartyID: partyID, Success: false, Message: fmt.Sprintf("Onboarding failed for created party %s: %v", partyID, err)}
		s.record(ctx, correlationID, out, start)
		return out
	}

	out := Outcome{PartyID: partyID, Success: true, Message: fmt.Sprintf("Successfully onboarded user %s", in.Email)}
	log.Infow("user onboarded", "partyId", partyID)
	s.record(ctx, correlationID, out, start)
	return out
}

func (s *Service) createUser(ctx context.Context, headers map[string]string, in Input) (string, error) {
	const op = "onboarding.create"
	body := createUserRequest{
		SignInNames: []signInName{{Value: in.Email}},
		GivenName:   in.FirstName,
		Surname:     in.LastName,
	}
	status, resp, err := httpclient.PostJSON(ctx, s.client, s.cfg.CreateUserURL, headers, body)
	if err != nil {
		return "", faults.Transport(op, err)
	}
	if status/100 != 2 {
		return "", faults.Rejected(op, status, string(resp))
	}
	var user createUserResponse
	if err := json.Unmarshal(resp, &user); err != nil {
		return "", faults.Malformed(op, err)
	}
	if user.ID == "" {
		return "", faults.Invariant(op, "create user response has no party id")
	}
	return user.ID, nil
}

func (s *Service) associateParty(ctx context.Context, headers map[string]string, in Input) error {
	const op = "onboarding.associate"
	body := associateRequest{
		Name:          in.FirstName,
		Surname:       in.LastName,
		ContactNumber: "",
		Options: associateOptions{
			AssociatePartyWithTenant: true,
			SendWelcomeEmail:         false,
			Async:                    true,
		},
		AccountType: accountType,
	}
	status, resp, err := httpclient.PostJSON(ctx, s.client, s.cfg.OnboardingURL, headers, body)
	if err != nil {
		return faults.Transport(op, err)
	}
	if status/100 != 2 {
		return faults.Rejected(op, status, string(resp))
	}
	return nil
}

func (s *Service) baseHeaders(correlationID, bearer string) map[string]string {
	return map[string]string{
		"CorrelationId":             correlationID,
		"Authorization":             "Bearer " + bearer,
		"X-Authenticated-TenantId":  s.cfg.TenantID,
		"Ocp-Apim-Subscription-Key": s.cfg.SubscriptionKey,
		"Referer":                   s.cfg.Referer,
	}
}

func (s *Service) record(ctx context.Context, correlationID string, out Outcome, start time.Time) {
	status := "SUCCEEDED"
	if !out.Success {
		status = "FAILED"
	}
	s.journal.Record(ctx, audit.Entry{
		Operation:     "onboarding",
		CorrelationID: correlationID,
		PartyID:       out.PartyID,
		Status:        status,
		Message:       out.Message,
		Duration:      time.Since(start),
	})
}

// withHeader returns a copy of h with one extra entry; steps never share a
// mutable header map.
func withHeader(h map[string]string, k, v string) map[string]string {
	out := make(map[string]string, len(h)+1)
	for kk, vv := range h {
		out[kk] = vv
	}
	out[k] = v
	return out
}
