package models

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// ============================================================================
// Signup Client
//
// Sends one POST per submission to the challenge signup endpoint and maps
// the response onto a SubmissionResult. Every failure, including transport
// errors and unreadable bodies, is converted into a result; Submit never
// returns an error and never retries. The user resubmits by hand.
// ============================================================================

// Submitter sends a signup. Implementations must be safe for concurrent use.
type Submitter interface {
	Submit(ctx context.Context, input SignupInput) SubmissionResult
}

// maxResponseBody caps how much of an error body we read.
const maxResponseBody = 64 << 10

// SignupClient is the HTTP Submitter for the challenge endpoint.
type SignupClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
	inFlight   atomic.Int32
}

// NewSignupClient creates a client from config. A zero Timeout leaves the
// request unbounded except by the caller's context.
func NewSignupClient(cfg *SignupConfig) (*SignupClient, error) {
	if err := cfg.Validate(true); err != nil {
		return nil, serr.Wrap(err, "invalid signup config")
	}

	return &SignupClient{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Endpoint returns the URL signups are posted to.
func (sc *SignupClient) Endpoint() string {
	return sc.endpoint
}

// InFlight reports whether any request from this client is pending.
func (sc *SignupClient) InFlight() bool {
	return sc.inFlight.Load() > 0
}

// Submit posts the credentials and classifies the response.
// It refuses locally, without a request, when the username is empty or the
// password violates the policy.
func (sc *SignupClient) Submit(ctx context.Context, input SignupInput) SubmissionResult {
	if input.Username == "" || !IsPolicyValid(input.Password) {
		RecordSubmission(ResultRefused)
		return SubmissionResult{Kind: ResultRefused}
	}

	sc.inFlight.Add(1)
	SignupInFlight.Inc()
	start := time.Now()
	defer func() {
		sc.inFlight.Add(-1)
		SignupInFlight.Dec()
		RecordSubmissionDuration(time.Since(start))
	}()

	res := sc.post(ctx, input)
	RecordSubmission(res.Kind)

	if res.Err != nil {
		logger.LogErr(res.Err, "signup request failed",
			"username", input.Username,
			"status", res.Status,
		)
	} else {
		logger.Info("Signup request completed",
			"username", input.Username,
			"status", res.Status,
			"result", res.Kind.String(),
		)
	}
	return res
}

func (sc *SignupClient) post(ctx context.Context, input SignupInput) SubmissionResult {
	body, err := json.Marshal(input)
	if err != nil {
		return SubmissionResult{Kind: ResultGenericFailure, Err: serr.Wrap(err, "failed to marshal signup request")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sc.endpoint, bytes.NewReader(body))
	if err != nil {
		return SubmissionResult{Kind: ResultGenericFailure, Err: serr.Wrap(err, "failed to create signup request")}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sc.token)

	resp, err := sc.httpClient.Do(req)
	if err != nil {
		return SubmissionResult{Kind: ResultGenericFailure, Err: serr.Wrap(err, "signup request failed")}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil && resp.StatusCode == http.StatusBadRequest {
		return SubmissionResult{
			Kind:   ResultGenericFailure,
			Status: resp.StatusCode,
			Err:    serr.Wrap(err, "failed to read signup response"),
		}
	}

	// Only a 400 needs its body; other statuses classify on the code alone.
	return ClassifyResponse(resp.StatusCode, respBody)
}
