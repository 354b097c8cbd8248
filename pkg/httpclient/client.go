// pkg/httpclient/client.go
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"productflow/pkg/config"
	"productflow/pkg/middleware"
)

// New builds the shared outbound client. One client per process; it carries no
// per-call state, so concurrent orchestrations share it without
// synchronization. The bounded timeout is a hardening deviation from the
// original behavior, which had none.
func New(cfg config.Config) *http.Client {
	return &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: middleware.OutboundTransport(nil),
	}
}

// PostJSON sends body as JSON with exactly the given headers and returns the
// status code and response bytes. Only transport-level problems are errors;
// non-2xx handling belongs to the caller.
func PostJSON(ctx context.Context, cli *http.Client, url string, headers map[string]string, body any) (int, []byte, error) {
	bb, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bb))
	if err != nil {
		return 0, nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := cli.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, b, nil
}
