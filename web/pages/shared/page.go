// Package shared contains reusable components that are shared across multiple pages.
package shared

import "github.com/rohanthewiz/element"

// AppName is shown in the banner and the document title
const AppName = "Signup"

// Page is embedded in page structs to give them a title and the shared
// components (MIXIN PATTERN: any struct embedding Page gets its methods).
//
// Example usage:
//
//	type CreateUserPage struct {
//	    shared.Page
//	    State models.FormState
//	}
type Page struct {
	Title string
}

// Banner returns the page banner for this page's title
func (p Page) Banner() Banner {
	return Banner{Title: p.Title}
}

// Footer returns the shared footer
func (p Page) Footer() Footer {
	return Footer{}
}

// Head renders the <head> element shared by all pages
func (p Page) Head(b *element.Builder) any {
	return b.Head().R(
		b.Meta("charset", "UTF-8"),
		b.Meta("name", "viewport", "content", "width=device-width, initial-scale=1.0"),
		b.Title().T(p.Title+" - "+AppName),
		b.Link("rel", "stylesheet", "href", "/static/css/app.css"),
	)
}
