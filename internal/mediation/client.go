package mediation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/keycare-ai/keycare/internal/redact"
)

const (
	endpointMediate = "/mediate"
	endpointHealth  = "/health"
)

// Client calls the remote mediation service. One physical call per attempt;
// one fixed-delay retry per logical request. The transport is asked to abort
// eagerly on cancellation, but correctness relies on the consumer-side token
// check, not on the abort.
type Client struct {
	baseURL          string
	client           *http.Client
	maxAttempts      int
	retryDelay       time.Duration
	maxResponseBytes int64
}

// NewClient creates a mediation client. The connect timeout bounds dialing;
// the read timeout bounds the whole exchange (remote model latency is high
// and variable, so the two are configured separately).
func NewClient(baseURL string, connectTimeout, readTimeout time.Duration, maxAttempts int, retryDelay time.Duration) *Client {
	if connectTimeout <= 0 {
		connectTimeout = 8 * time.Second
	}
	if readTimeout <= 0 {
		readTimeout = 12 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 2
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &Client{
		baseURL:          baseURL,
		maxAttempts:      maxAttempts,
		retryDelay:       retryDelay,
		maxResponseBytes: 1 << 20,
		client: &http.Client{
			Timeout: readTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: connectTimeout,
				}).DialContext,
			},
		},
	}
}

// Mediate performs the risk/rewrite call for one logical request. On any
// transport failure it waits the retry delay and tries once more; after the
// attempts are exhausted it reports a typed *Error and never a synthesized
// result. Cancellation short-circuits the retry loop.
func (c *Client) Mediate(ctx context.Context, req Request) (*Result, error) {
	var lastErr *Error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		res, err := c.doMediate(ctx, req)
		if err == nil {
			return res, nil
		}

		lastErr = err
		lastErr.Attempts = attempt
		if lastErr.Kind == KindCancelled {
			return nil, lastErr
		}
		redact.Logf("mediate attempt %d/%d failed: %v", attempt, c.maxAttempts, lastErr)

		if attempt < c.maxAttempts {
			if err := sleepCtx(ctx, c.retryDelay); err != nil {
				return nil, &Error{Kind: KindCancelled, Attempts: attempt, cause: err}
			}
		}
	}
	return nil, lastErr
}

func (c *Client) doMediate(ctx context.Context, req Request) (*Result, *Error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, cause: fmt.Errorf("marshal mediate request: %w", err)}
	}

	data, herr := c.post(ctx, endpointMediate, body)
	if herr != nil {
		return nil, herr
	}

	var wire struct {
		RiskLevel string `json:"risk_level"`
		Why       string `json:"why"`
		Rewrite   string `json:"rewrite"`
		Language  string `json:"language"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &Error{Kind: KindMalformed, cause: fmt.Errorf("decode mediate response: %w", err)}
	}

	res := &Result{
		RiskLevel: ParseRiskLevel(wire.RiskLevel),
		Why:       wire.Why,
		Rewrite:   wire.Rewrite,
		Language:  wire.Language,
	}
	if res.Language == "" {
		res.Language = LangEN
	}
	return res, nil
}

// Rewrite performs the legacy rewrite call with the same retry policy and
// accepts both documented response shapes.
func (c *Client) Rewrite(ctx context.Context, req RewriteRequest) ([]Suggestion, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Attempts: 0, cause: fmt.Errorf("marshal rewrite request: %w", err)}
	}

	var lastErr *Error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		data, herr := c.post(ctx, endpointMediate, body)
		if herr == nil {
			sugs, perr := ParseRewriteResponse(data)
			if perr == nil {
				return sugs, nil
			}
			herr = perr
		}

		lastErr = herr
		lastErr.Attempts = attempt
		if lastErr.Kind == KindCancelled {
			return nil, lastErr
		}
		redact.Logf("rewrite attempt %d/%d failed: %v", attempt, c.maxAttempts, lastErr)

		if attempt < c.maxAttempts {
			if err := sleepCtx(ctx, c.retryDelay); err != nil {
				return nil, &Error{Kind: KindCancelled, Attempts: attempt, cause: err}
			}
		}
	}
	return nil, lastErr
}

// ParseRewriteResponse accepts either the structured {suggestions:[{text,
// reason}]} shape or the flat {calm, firm, educational} shape, preferring the
// structured array when present. An empty set counts as malformed.
func ParseRewriteResponse(data []byte) ([]Suggestion, *Error) {
	var wire struct {
		Suggestions []struct {
			Text   string `json:"text"`
			Reason string `json:"reason"`
		} `json:"suggestions"`
		Calm        string `json:"calm"`
		Firm        string `json:"firm"`
		Educational string `json:"educational"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &Error{Kind: KindMalformed, cause: fmt.Errorf("decode rewrite response: %w", err)}
	}

	var sugs []Suggestion
	if len(wire.Suggestions) > 0 {
		for _, s := range wire.Suggestions {
			if s.Text == "" {
				continue
			}
			sugs = append(sugs, Suggestion{Text: s.Text, Reason: s.Reason, Source: "remote"})
		}
	} else {
		for _, pair := range []struct{ text, reason string }{
			{wire.Calm, "Calm approach"},
			{wire.Firm, "Clear boundaries"},
			{wire.Educational, "Informative tone"},
		} {
			if pair.text == "" {
				continue
			}
			sugs = append(sugs, Suggestion{Text: pair.text, Reason: pair.reason, Source: "remote"})
		}
	}

	if len(sugs) == 0 {
		return nil, &Error{Kind: KindMalformed, cause: fmt.Errorf("no suggestions in response")}
	}
	return sugs, nil
}

// CheckHealth reports whether GET /health answered 200. Any other status or
// transport error means unavailable; no error is surfaced.
func (c *Client) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpointHealth, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
	return resp.StatusCode == http.StatusOK
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) ([]byte, *Error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindMalformed, cause: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: classify(err), cause: fmt.Errorf("call %s: %w", endpoint, err)}
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, c.maxResponseBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, &Error{Kind: classify(err), cause: fmt.Errorf("read %s response: %w", endpoint, err)}
	}
	if int64(len(data)) > c.maxResponseBytes {
		return nil, &Error{Kind: KindMalformed, cause: fmt.Errorf("%s response exceeded limit (%d bytes)", endpoint, c.maxResponseBytes)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindServerError, Status: resp.StatusCode}
	}
	return data, nil
}

// sleepCtx waits the delay or returns early with the context's error.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
