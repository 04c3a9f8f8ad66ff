package models

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rohanthewiz/serr"
)

// SignupInput is the body sent to the challenge signup endpoint.
// The password is plaintext on the wire; it must never be logged.
type SignupInput struct {
	Username string `json:"username" msgpack:"username"`
	Password string `json:"password" msgpack:"password"`
}

// ResultKind tags the outcome of a submission.
type ResultKind int

const (
	// ResultRefused means the submission never left the process because the
	// username was empty or the password failed the policy.
	ResultRefused ResultKind = iota
	ResultSuccess
	ResultRejectedPassword
	ResultUnauthenticated
	ResultGenericFailure
)

// String returns the label used in logs, metrics and API responses.
func (k ResultKind) String() string {
	switch k {
	case ResultRefused:
		return "refused"
	case ResultSuccess:
		return "success"
	case ResultRejectedPassword:
		return "rejected_password"
	case ResultUnauthenticated:
		return "unauthenticated"
	default:
		return "generic_failure"
	}
}

// User-facing messages for server and transport outcomes.
const (
	MsgRejectedPassword = "Sorry, the entered password is not allowed, please try a different one."
	MsgUnauthenticated  = "Not authenticated to access this resource."
	MsgGenericFailure   = "Something went wrong, please try again."
)

// SubmissionResult is what a Submitter hands back to the form.
// Status is zero when no HTTP response was received.
// Detail carries the server's message when one could be decoded.
// Err records transport or decoding failures for logging only.
type SubmissionResult struct {
	Kind   ResultKind
	Status int
	Detail string
	Err    error
}

// Message returns the string to display to the user, empty when there is
// nothing to show.
func (r SubmissionResult) Message() string {
	switch r.Kind {
	case ResultRejectedPassword:
		return MsgRejectedPassword
	case ResultUnauthenticated:
		return MsgUnauthenticated
	case ResultGenericFailure:
		return MsgGenericFailure
	default:
		return ""
	}
}

// OK reports whether the account was created.
func (r SubmissionResult) OK() bool {
	return r.Kind == ResultSuccess
}

// ClassifyResponse maps an HTTP status and body to a SubmissionResult.
//
//   - 2xx is success
//   - 400 is a password rejection when the server's message mentions
//     "password" (any case), otherwise a generic failure
//   - 401 and 403 are authentication failures
//   - everything else is a generic failure
func ClassifyResponse(status int, body []byte) SubmissionResult {
	res := SubmissionResult{Status: status}

	switch {
	case status >= 200 && status < 300:
		res.Kind = ResultSuccess
	case status == http.StatusBadRequest:
		detail, err := ErrorDetail(body)
		res.Detail = detail
		res.Err = err
		if err == nil && strings.Contains(strings.ToLower(detail), "password") {
			res.Kind = ResultRejectedPassword
		} else {
			res.Kind = ResultGenericFailure
		}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		res.Kind = ResultUnauthenticated
	default:
		res.Kind = ResultGenericFailure
	}

	return res
}

// errorBody covers the response shapes seen for the challenge API.
// detail is checked first, then error, then message.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   json.RawMessage `json:"error"`
	Message json.RawMessage `json:"message"`
}

// ErrorDetail extracts the server's error message from a response body.
// A detail may be a plain string or a list of {"msg": ...} objects
// (FastAPI validation errors); list messages are joined with "; ".
// An empty body yields "" without error.
func ErrorDetail(body []byte) (string, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", nil
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return "", serr.Wrap(err, "failed to decode error body")
	}

	for _, raw := range []json.RawMessage{eb.Detail, eb.Error, eb.Message} {
		if msg := rawMessageText(raw); msg != "" {
			return msg, nil
		}
	}
	return "", nil
}

func rawMessageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
