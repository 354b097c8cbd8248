// internal/token/service.go
package token

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.uber.org/zap"

	"productflow/pkg/faults"
	"productflow/pkg/secrets"
)

// Token is the identity provider's password-grant response. Only AccessToken
// is consumed downstream; a token lives for one orchestration call and is
// never cached.
type Token struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    string `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
}

// Credential key pairs: secret-store name first, static config key as
// fallback. Both sides of a pair name the same logical value.
var credentialKeys = []struct {
	secret string
	conf   string
}{
	{"productflow--token-url", "token_url"},
	{"productflow--user-email", "user_email"},
	{"productflow--user-password", "user_password"},
	{"productflow--client-id", "client_id"},
}

type Issuer struct {
	resolver *secrets.Resolver
	client   *http.Client
	log      *zap.SugaredLogger
}

func NewIssuer(resolver *secrets.Resolver, client *http.Client, log *zap.SugaredLogger) *Issuer {
	return &Issuer{resolver: resolver, client: client, log: log}
}

// Issue performs a fresh password-grant exchange. No retries, no caching:
// every call is one network round trip.
func (s *Issuer) Issue(ctx context.Context) (*Token, error) {
	const op = "token.issue"

	resolved := make([]string, 0, len(credentialKeys))
	var missing []string
	for _, k := range credentialKeys {
		// Each key resolves independently so diagnostics name every gap.
		v, ok := s.resolver.Resolve(ctx, k.secret, k.conf)
		if !ok {
			missing = append(missing, k.conf)
			continue
		}
		resolved = append(resolved, v)
	}
	if len(missing) > 0 {
		return nil, faults.Missing(op, "unresolved credentials: "+strings.Join(missing, ", "))
	}
	tokenURL, userEmail, userPassword, clientID := resolved[0], resolved[1], resolved[2], resolved[3]

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("grant_type", "password")
	form.Set("scope", "openid "+clientID+" offline_access")
	form.Set("response_type", "token id_token")
	form.Set("username", userEmail)
	form.Set("password", userPassword)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, faults.Transport(op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, faults.Transport(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, faults.Transport(op, err)
	}
	if resp.StatusCode/100 != 2 {
		s.log.Errorw("token request rejected", "status", resp.StatusCode, "body", string(body))
		return nil, faults.Rejected(op, resp.StatusCode, string(body))
	}

	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, faults.Malformed(op, err)
	}
	s.logClaims(&tok)
	return &tok, nil
}

// Bearer returns a freshly issued access token, or fallback when issuance
// fails or yields an empty access token. The static fallback exists for
// environments without the identity-provider integration; it weakens the auth
// contract, so every use is logged loudly.
func (s *Issuer) Bearer(ctx context.Context, fallback string) string {
	tok, err := s.Issue(ctx)
	if err == nil && tok.AccessToken != "" {
		return tok.AccessToken
	}
	if err != nil {
		s.log.Warnw("token issuance failed, using static fallback token", "err", err)
	} else {
		s.log.Warnw("token response carried no access token, using static fallback token")
	}
	return fallback
}

// logClaims surfaces subject/expiry from the id_token for operators. The
// token is not verified here — this is observational only.
func (s *Issuer) logClaims(tok *Token) {
	if tok.IDToken == "" {
		return
	}
	t, err := jwt.ParseInsecure([]byte(tok.IDToken))
	if err != nil {
		return
	}
	s.log.Debugw("token issued", "sub", t.Subject(), "exp", t.Expiration())
}
