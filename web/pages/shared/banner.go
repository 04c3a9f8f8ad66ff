package shared

import "github.com/rohanthewiz/element"

// Banner is the heading strip at the top of every page.
// It implements element.Component implicitly through its Render method.
type Banner struct {
	Title string
}

// Render implements element.Component
func (b Banner) Render(builder *element.Builder) any {
	builder.Header("class", "banner").R(
		builder.H1().T(b.Title),
	)
	return nil
}
