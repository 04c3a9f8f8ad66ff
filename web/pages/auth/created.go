package auth

import (
	"signupform/web/pages/shared"

	"github.com/rohanthewiz/element"
)

// UserCreatedPage is shown once the signup endpoint has accepted the account.
type UserCreatedPage struct {
	shared.Page
	Username string
}

// NewUserCreatedPage creates the confirmation page
func NewUserCreatedPage(username string) UserCreatedPage {
	return UserCreatedPage{
		Page:     shared.Page{Title: "User Created"},
		Username: username,
	}
}

// Render generates the HTML for the confirmation page
func (p UserCreatedPage) Render() string {
	b := element.NewBuilder()

	b.Html("lang", "en").R(
		p.Head(b),
		b.Body().R(
			element.RenderComponents(b, p.Banner()),
			b.DivClass("form-wrapper").R(
				b.H2().T("Account created"),
				b.Wrap(func() {
					if p.Username != "" {
						b.P().T("The user " + strict.Sanitize(p.Username) + " was created successfully.")
					} else {
						b.P().T("The user was created successfully.")
					}
				}),
				b.A("href", "/signup").T("Create another user"),
			),
			element.RenderComponents(b, p.Footer()),
		),
	)

	return "<!DOCTYPE html>" + b.String()
}
