package models

import (
	"context"
	"fmt"
	"sync"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// ============================================================================
// Create-User Form
//
// Form owns the state of one create-user form instance. Renderers (the web
// page and the terminal UI) read it through Snapshot and drive it through
// the setters and the submit pair BeginSubmit / FinishSubmit.
//
// State machine:
//
//	Editing --BeginSubmit--> Submitting --FinishSubmit(ok)--> Success
//	                                    --FinishSubmit(err)--> Editing (APIError set)
//
// Success is terminal: what happens next belongs to the caller, notified
// through OnCreated.
// ============================================================================

// FormPhase is the coarse state of a Form.
type FormPhase int

const (
	PhaseEditing FormPhase = iota
	PhaseSubmitting
	PhaseSuccess
)

func (p FormPhase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	default:
		return "editing"
	}
}

// Submit button labels.
const (
	LabelCreateUser = "Create User"
	LabelSubmitting = "Submitting..."
)

// FormState is the data a renderer needs to draw the form.
type FormState struct {
	Username         string   `json:"username"`
	Password         string   `json:"-"`
	ValidationErrors []string `json:"validation_errors"`
	APIError         string   `json:"api_error,omitempty"`
	IsSubmitting     bool     `json:"is_submitting"`
}

// Form is safe for concurrent use; the terminal UI finishes submissions
// from a command goroutine while the update loop reads state.
type Form struct {
	mu        sync.Mutex
	state     FormState
	succeeded bool

	// OnCreated is invoked with true once the account has been created.
	OnCreated func(created bool)
}

// NewForm returns a form in the Editing phase. The empty password already
// violates the policy, so ValidationErrors starts populated.
func NewForm(onCreated func(bool)) *Form {
	return &Form{
		state:     FormState{ValidationErrors: ValidatePassword("")},
		OnCreated: onCreated,
	}
}

// SetUsername updates the username. Ignored once the form has succeeded.
func (f *Form) SetUsername(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.succeeded {
		return
	}
	f.state.Username = username
}

// SetPassword updates the password, recomputes the validation errors and
// clears any API error from a previous attempt.
func (f *Form) SetPassword(password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.succeeded {
		return
	}
	f.state.Password = password
	f.state.ValidationErrors = ValidatePassword(password)
	f.state.APIError = ""
}

// BeginSubmit moves the form to Submitting and returns the input to send.
// It returns false, without touching the in-flight flag, when the form has
// already succeeded, a submission is pending, the username is empty or the
// password violates the policy.
func (f *Form) BeginSubmit() (SignupInput, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.succeeded || f.state.IsSubmitting {
		return SignupInput{}, false
	}

	f.state.APIError = ""
	f.state.ValidationErrors = ValidatePassword(f.state.Password)
	if f.state.Username == "" || len(f.state.ValidationErrors) > 0 {
		return SignupInput{}, false
	}

	f.state.IsSubmitting = true
	return SignupInput{Username: f.state.Username, Password: f.state.Password}, true
}

// FinishSubmit records the outcome of the submission started by BeginSubmit
// and clears the in-flight flag.
func (f *Form) FinishSubmit(res SubmissionResult) {
	f.mu.Lock()
	f.state.IsSubmitting = false

	if res.OK() {
		f.succeeded = true
		f.state.APIError = ""
		cb := f.OnCreated
		f.mu.Unlock()
		if cb != nil {
			cb(true)
		}
		return
	}

	if res.Kind == ResultRefused {
		f.state.ValidationErrors = ValidatePassword(f.state.Password)
	} else {
		f.state.APIError = res.Message()
	}
	f.mu.Unlock()
}

// Submit runs one full submission synchronously. When the form refuses to
// submit, the returned result has Kind ResultRefused and no request is made.
// The in-flight flag is cleared on every exit path, including a panicking
// Submitter.
func (f *Form) Submit(ctx context.Context, s Submitter) (res SubmissionResult) {
	input, ok := f.BeginSubmit()
	if !ok {
		return SubmissionResult{Kind: ResultRefused}
	}

	defer func() {
		if r := recover(); r != nil {
			res = SubmissionResult{
				Kind: ResultGenericFailure,
				Err:  serr.New(fmt.Sprintf("submitter panicked: %v", r)),
			}
			logger.LogErr(res.Err, "signup submission aborted", "username", input.Username)
		}
		f.FinishSubmit(res)
	}()

	return s.Submit(ctx, input)
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.state
	st.ValidationErrors = append([]string(nil), f.state.ValidationErrors...)
	return st
}

// Phase reports where the form is in its state machine.
func (f *Form) Phase() FormPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.succeeded:
		return PhaseSuccess
	case f.state.IsSubmitting:
		return PhaseSubmitting
	default:
		return PhaseEditing
	}
}

// SubmitLabel is the text for the submit control.
func (f *Form) SubmitLabel() string {
	if f.Phase() == PhaseSubmitting {
		return LabelSubmitting
	}
	return LabelCreateUser
}
