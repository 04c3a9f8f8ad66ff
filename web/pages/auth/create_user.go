package auth

import (
	"signupform/models"
	"signupform/web/pages/shared"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rohanthewiz/element"
)

// strict strips all markup from user-supplied values echoed back into the page
var strict = bluemonday.StrictPolicy()

// CreateUserPage renders the create-user form for one FormState.
type CreateUserPage struct {
	shared.Page
	State models.FormState
	// Action is the URL the form posts to
	Action string
}

// NewCreateUserPage creates the page for the given form state.
func NewCreateUserPage(state models.FormState) CreateUserPage {
	return CreateUserPage{
		Page:   shared.Page{Title: "Create User"},
		State:  state,
		Action: "/signup",
	}
}

// Render generates the HTML for the create-user page
func (p CreateUserPage) Render() string {
	b := element.NewBuilder()

	b.Html("lang", "en").R(
		p.Head(b),
		b.Body().R(
			element.RenderComponents(b, p.Banner(), CreateUserForm{State: p.State, Action: p.Action}, p.Footer()),
			b.Script("src", "/static/js/signup.js").R(),
		),
	)

	return "<!DOCTYPE html>" + b.String()
}

// CreateUserForm is the form component itself; it can be embedded in any page.
type CreateUserForm struct {
	State  models.FormState
	Action string
}

// Render implements element.Component
func (f CreateUserForm) Render(b *element.Builder) any {
	st := f.State
	submitLabel := models.LabelCreateUser
	if st.IsSubmitting {
		submitLabel = models.LabelSubmitting
	}

	b.DivClass("form-wrapper").R(
		b.Form("class", "signup-form", "id", "signup-form", "method", "post",
			"action", f.Action, "novalidate", "novalidate").R(
			// Username field
			b.LabelClass("form-label", "for", "username").T("Username"),
			b.Input("type", "text", "class", "form-input", "id", "username",
				"name", "username", "autocomplete", "username",
				"value", strict.Sanitize(st.Username),
				"aria-invalid", boolAttr(st.Username == "" && st.IsSubmitting)),

			// Password field, never echoed back
			b.LabelClass("form-label", "for", "password").T("Password"),
			b.Input("type", "password", "class", "form-input", "id", "password",
				"name", "password", "autocomplete", "new-password",
				"aria-invalid", boolAttr(len(st.ValidationErrors) > 0)),

			// Password validation errors
			b.Ul("class", "form-errors", "id", "password-errors").R(
				func() (x any) {
					for _, msg := range st.ValidationErrors {
						b.Li().T(msg)
					}
					return
				}(),
			),

			// API error message
			b.Wrap(func() {
				if st.APIError != "" {
					b.Div("class", "api-error", "id", "api-error", "role", "alert").T(st.APIError)
				} else {
					b.Div("class", "api-error hidden", "id", "api-error", "role", "alert").R()
				}
			}),

			b.Wrap(func() {
				if st.IsSubmitting {
					b.Button("type", "submit", "class", "form-button", "id", "submit-btn",
						"disabled", "disabled").T(submitLabel)
				} else {
					b.Button("type", "submit", "class", "form-button", "id", "submit-btn").T(submitLabel)
				}
			}),
		),
	)
	return nil
}

func boolAttr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
