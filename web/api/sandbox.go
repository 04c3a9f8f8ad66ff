package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"signupform/models"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
)

// RequireSandboxToken guards a sandbox handler with bearer authentication.
// A missing or non-bearer Authorization header is answered with 401 and an
// invalid token with 403, the same split as the real service.
func RequireSandboxToken(next rweb.Handler) rweb.Handler {
	return func(ctx rweb.Context) error {
		authHeader := ctx.Request().Header("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return writeDetail(ctx, http.StatusUnauthorized, "Not authenticated")
		}

		claims, err := models.ValidateSandboxToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			// Don't log every invalid token attempt
			return writeDetail(ctx, http.StatusForbidden, "Invalid authentication credentials")
		}

		ctx.Set("sandbox_subject", claims.Subject)
		return next(ctx)
	}
}

// ChallengeSignupOutput is returned when the sandbox creates an account.
type ChallengeSignupOutput struct {
	GUID     string `json:"guid"`
	Username string `json:"username"`
}

// ChallengeSignup is the sandbox stand-in for the challenge signup endpoint.
// POST /password-validation-challenge-api/001/challenge-signup
//
// Request body:
//
//	{ "username": "alice", "password": "GoodPassw0rd" }
//
// Success (200):
//
//	{ "guid": "...", "username": "alice" }
//
// Errors (all as { "detail": "..." }):
//   - 400: Invalid body, policy violation, denied password, username taken
//   - 401: Missing bearer token
//   - 403: Invalid bearer token
func ChallengeSignup(ctx rweb.Context) error {
	var input models.SignupInput
	if err := json.Unmarshal(ctx.Request().Body(), &input); err != nil {
		return writeDetail(ctx, http.StatusBadRequest, models.DetailInvalidBody)
	}

	user, err := models.CreateChallengeUser(input)
	if err != nil {
		var sbErr *models.SandboxError
		if errors.As(err, &sbErr) {
			logger.Debug("Sandbox signup rejected", "username", input.Username, "detail", sbErr.Detail)
			return writeDetail(ctx, sbErr.Status, sbErr.Detail)
		}
		logger.LogErr(err, "sandbox signup failed", "username", input.Username)
		return writeDetail(ctx, http.StatusInternalServerError, "Internal server error")
	}

	logger.Info("Sandbox account created", "username", user.Username, "guid", user.GUID)
	ctx.SetStatus(http.StatusOK)
	return ctx.WriteJSON(ChallengeSignupOutput{GUID: user.GUID, Username: user.Username})
}

// ChallengeVerify checks the credentials of a sandbox account.
// POST /password-validation-challenge-api/001/challenge-verify
//
// Success (200):
//
//	{ "guid": "...", "username": "alice" }
//
// Errors (all as { "detail": "..." }):
//   - 400: Invalid body
//   - 401: Unknown user, wrong password or missing bearer token
//   - 403: Invalid bearer token
func ChallengeVerify(ctx rweb.Context) error {
	var input models.SignupInput
	if err := json.Unmarshal(ctx.Request().Body(), &input); err != nil {
		return writeDetail(ctx, http.StatusBadRequest, models.DetailInvalidBody)
	}

	user, err := models.VerifyChallengeUser(input)
	if err != nil {
		var sbErr *models.SandboxError
		if errors.As(err, &sbErr) {
			return writeDetail(ctx, sbErr.Status, sbErr.Detail)
		}
		logger.LogErr(err, "sandbox verify failed", "username", input.Username)
		return writeDetail(ctx, http.StatusInternalServerError, "Internal server error")
	}

	ctx.SetStatus(http.StatusOK)
	return ctx.WriteJSON(ChallengeSignupOutput{GUID: user.GUID, Username: user.Username})
}
