package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"signupform/models"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"
	"github.com/vmihailenco/msgpack/v5"
)

// submitter used by the signup endpoints; set once at startup
var (
	submitter   models.Submitter
	submitterMu sync.RWMutex
)

// SetSubmitter stores the Submitter the signup endpoints post through.
func SetSubmitter(s models.Submitter) {
	submitterMu.Lock()
	defer submitterMu.Unlock()
	submitter = s
}

// GetSubmitter returns the configured Submitter, nil if none was set.
func GetSubmitter() models.Submitter {
	submitterMu.RLock()
	defer submitterMu.RUnlock()
	return submitter
}

// SubmitTimeout bounds one upstream submission made on behalf of a request.
var SubmitTimeout = 30 * time.Second

// SubmitContext returns the context a handler submits under; callers must
// call the cancel func.
func SubmitContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), SubmitTimeout)
}

// ContentTypeMsgPack selects a msgpack-encoded request body.
const ContentTypeMsgPack = "application/msgpack"

// PasswordCheckInput is the body of the live validation endpoint.
type PasswordCheckInput struct {
	Password string `json:"password"`
}

// PasswordCheckOutput lists the violated rules, in rule order.
type PasswordCheckOutput struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// SignupOutput describes the outcome of a signup submission.
type SignupOutput struct {
	Result           string   `json:"result"`
	Message          string   `json:"message,omitempty"`
	UpstreamStatus   int      `json:"upstream_status,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

// ValidatePassword checks a password against the policy.
// POST /api/v1/password/validate
//
// Request body:
//
//	{ "password": "..." }
//
// Success (200):
//
//	{ "success": true, "data": { "valid": false, "errors": ["..."] } }
func ValidatePassword(ctx rweb.Context) error {
	var input PasswordCheckInput
	if err := json.Unmarshal(ctx.Request().Body(), &input); err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	errs := models.ValidatePassword(input.Password)
	if errs == nil {
		errs = []string{}
	}
	return writeSuccess(ctx, http.StatusOK, PasswordCheckOutput{Valid: len(errs) == 0, Errors: errs})
}

// Signup submits credentials to the signup endpoint.
// POST /api/v1/signup
//
// Request body (JSON, or msgpack with Content-Type: application/msgpack):
//
//	{ "username": "alice", "password": "GoodPassw0rd" }
//
// Success (201):
//
//	{ "success": true, "data": { "result": "success" } }
//
// Errors:
//   - 400: Invalid body, or the password was rejected upstream
//   - 422: Refused locally (empty username or policy violations)
//   - 502: Upstream authentication or generic failure
//   - 503: No submitter configured
func Signup(ctx rweb.Context) error {
	input, err := decodeSignupInput(ctx)
	if err != nil {
		logger.LogErr(err, "invalid signup body")
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	sub := GetSubmitter()
	if sub == nil {
		return writeError(ctx, http.StatusServiceUnavailable, "signup is not configured")
	}

	form := models.NewForm(nil)
	form.SetUsername(input.Username)
	form.SetPassword(input.Password)

	submitCtx, cancel := SubmitContext()
	defer cancel()

	res := form.Submit(submitCtx, sub)
	out := SignupOutput{
		Result:         res.Kind.String(),
		Message:        res.Message(),
		UpstreamStatus: res.Status,
	}

	switch res.Kind {
	case models.ResultSuccess:
		return writeSuccess(ctx, http.StatusCreated, out)
	case models.ResultRefused:
		out.ValidationErrors = form.Snapshot().ValidationErrors
		msg := "password does not meet the policy"
		if input.Username == "" {
			msg = "username is required"
		}
		return writeErrorData(ctx, http.StatusUnprocessableEntity, msg, out)
	case models.ResultRejectedPassword:
		return writeErrorData(ctx, http.StatusBadRequest, out.Message, out)
	default:
		return writeErrorData(ctx, http.StatusBadGateway, out.Message, out)
	}
}

// SignupStatusOutput reports whether a request is pending upstream.
type SignupStatusOutput struct {
	Configured bool `json:"configured"`
	InFlight   bool `json:"in_flight"`
}

// SignupStatus reports the submitter state.
// GET /api/v1/signup/status
func SignupStatus(ctx rweb.Context) error {
	out := SignupStatusOutput{}
	sub := GetSubmitter()
	if sub != nil {
		out.Configured = true
		if c, ok := sub.(interface{ InFlight() bool }); ok {
			out.InFlight = c.InFlight()
		}
	}
	return writeSuccess(ctx, http.StatusOK, out)
}

func decodeSignupInput(ctx rweb.Context) (models.SignupInput, error) {
	var input models.SignupInput
	body := ctx.Request().Body()

	if strings.HasPrefix(ctx.Request().Header("Content-Type"), ContentTypeMsgPack) {
		if err := msgpack.Unmarshal(body, &input); err != nil {
			return input, serr.Wrap(err, "failed to unmarshal msgpack signup body")
		}
		return input, nil
	}

	if err := json.Unmarshal(body, &input); err != nil {
		return input, serr.Wrap(err, "failed to unmarshal signup body")
	}
	return input, nil
}
