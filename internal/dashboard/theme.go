package dashboard

import (
	"fmt"
	"html/template"
)

// Palette maps accent color names to CSS colors. Lookups of unknown names
// return Default.
type Palette struct {
	Colors  map[string]string
	Default string
}

// DefaultPalette returns the accent colors used by the dashboard headings.
func DefaultPalette() Palette {
	return Palette{
		Colors: map[string]string{
			"light-blue-70": "#00c0f2",
			"orange-70":     "#ffa421",
			"blue-green-70": "#00d4b1",
			"blue-70":       "#1c83e1",
			"violet-70":     "#803df5",
			"red-70":        "#ff4b4b",
			"green-70":      "#21c354",
			"yellow-80":     "#faca2b",
		},
		Default: "#000000",
	}
}

// Color resolves name to a CSS color.
func (p Palette) Color(name string) string {
	if c, ok := p.Colors[name]; ok {
		return c
	}
	return p.Default
}

// Heading is a section title with a colored underline.
type Heading struct {
	Label       string
	Description string
	Accent      string // palette color name for the underline
	TextColor   string // CSS color of the title
}

// Render produces the heading markup. Each call carries its own accent.
func (p Palette) Render(h Heading) template.HTML {
	text := h.TextColor
	if text == "" {
		text = "#31333f"
	}
	out := fmt.Sprintf(`<h3 style="color: %s; margin: 0;">%s</h3>`, template.HTMLEscapeString(text), template.HTMLEscapeString(h.Label))
	out += fmt.Sprintf(`<hr style="background-color: %s; margin: 0; height: 3px; border: none; border-radius: 3px;">`, template.HTMLEscapeString(p.Color(h.Accent)))
	if h.Description != "" {
		out += fmt.Sprintf(`<p class="caption">%s</p>`, template.HTMLEscapeString(h.Description))
	}
	return template.HTML(out)
}
