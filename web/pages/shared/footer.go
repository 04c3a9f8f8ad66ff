package shared

import "github.com/rohanthewiz/element"

// Footer is a stateless component; the empty struct has zero size.
type Footer struct{}

// Render implements element.Component
func (f Footer) Render(b *element.Builder) any {
	b.Div("class", "footer").R(
		b.P().T(AppName + " form"),
	)
	return nil
}
