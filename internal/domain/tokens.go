package domain

import (
	"fmt"
	"math"
	"strings"
)

// ColorRole identifies one slot in the color token set. The set is closed:
// every role listed in ColorRoles has a committed value at all times.
type ColorRole string

const (
	ColorBackground ColorRole = "background"
	ColorSurface    ColorRole = "surface"
	ColorPrimary    ColorRole = "primary"
	ColorSecondary  ColorRole = "secondary"
	ColorAccent     ColorRole = "accent"
	ColorText       ColorRole = "text"
	ColorMuted      ColorRole = "muted"
	ColorBorder     ColorRole = "border"
)

// ColorRoles is the full color role domain, in display order.
func ColorRoles() []ColorRole {
	return []ColorRole{
		ColorBackground, ColorSurface, ColorPrimary, ColorSecondary,
		ColorAccent, ColorText, ColorMuted, ColorBorder,
	}
}

// ParseColorRole checks a caller-supplied role string against the closed
// color set. The role domain is enforced here, at the boundary, so the
// stores never see an unknown role.
func ParseColorRole(s string) (ColorRole, error) {
	switch r := ColorRole(s); r {
	case ColorBackground, ColorSurface, ColorPrimary, ColorSecondary,
		ColorAccent, ColorText, ColorMuted, ColorBorder:
		return r, nil
	}
	return "", fmt.Errorf("unknown color role %q", s)
}

// FontRole identifies one slot in the typography token set.
type FontRole string

const (
	FontHeading FontRole = "heading"
	FontBody    FontRole = "body"
	FontMono    FontRole = "mono"
)

// FontRoles is the full typography role domain.
func FontRoles() []FontRole {
	return []FontRole{FontHeading, FontBody, FontMono}
}

// ParseFontRole checks a caller-supplied role string against the closed
// typography set.
func ParseFontRole(s string) (FontRole, error) {
	switch r := FontRole(s); r {
	case FontHeading, FontBody, FontMono:
		return r, nil
	}
	return "", fmt.Errorf("unknown font role %q", s)
}

// HSL is a color token value. Hue is in degrees [0, 360); saturation and
// lightness are fractions in [0, 1].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// Normalize brings out-of-domain components back into range. Hue is cyclic
// and wraps modulo 360; saturation and lightness clamp. Interactive edits
// are never rejected for range errors.
func (c HSL) Normalize() HSL {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	return HSL{H: h, S: clamp01(c.S), L: clamp01(c.L)}
}

// CSS renders the value as a CSS hsl() function.
func (c HSL) CSS() string {
	return fmt.Sprintf("hsl(%g, %g%%, %g%%)", c.H, c.S*100, c.L*100)
}

// ParseHSL parses the CSS form produced by CSS. Used to bootstrap a store
// from variables already resolved on the rendering surface.
func ParseHSL(s string) (HSL, error) {
	var c HSL
	trimmed := strings.TrimSpace(s)
	if _, err := fmt.Sscanf(trimmed, "hsl(%g, %g%%, %g%%)", &c.H, &c.S, &c.L); err != nil {
		// Some surfaces report without spaces after commas.
		if _, err2 := fmt.Sscanf(trimmed, "hsl(%g,%g%%,%g%%)", &c.H, &c.S, &c.L); err2 != nil {
			return HSL{}, fmt.Errorf("parse hsl %q: %w", s, err)
		}
	}
	c.S /= 100
	c.L /= 100
	return c.Normalize(), nil
}

// FontStack is a typography token value: a CSS font-family list.
type FontStack string

// Normalize trims surrounding whitespace. Empty stacks are legal here; the
// store substitutes the role default at its boundary.
func (f FontStack) Normalize() FontStack {
	return FontStack(strings.TrimSpace(string(f)))
}

// CSS renders the value for a font-family custom property.
func (f FontStack) CSS() string { return string(f) }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ColorVar returns the custom property name carrying a color role.
func ColorVar(r ColorRole) string { return "--color-" + string(r) }

// FontVar returns the custom property name carrying a font role.
func FontVar(r FontRole) string { return "--font-" + string(r) }

// DefaultColors is the compiled-in palette used when neither a snapshot nor
// pre-rendered surface values exist.
func DefaultColors() map[ColorRole]HSL {
	return map[ColorRole]HSL{
		ColorBackground: {H: 240, S: 1.00, L: 0.99},
		ColorSurface:    {H: 240, S: 0.20, L: 0.96},
		ColorPrimary:    {H: 250, S: 0.70, L: 0.55},
		ColorSecondary:  {H: 200, S: 0.60, L: 0.50},
		ColorAccent:     {H: 330, S: 0.80, L: 0.60},
		ColorText:       {H: 240, S: 0.25, L: 0.12},
		ColorMuted:      {H: 240, S: 0.10, L: 0.45},
		ColorBorder:     {H: 240, S: 0.15, L: 0.88},
	}
}

// DefaultFonts is the compiled-in typography set.
func DefaultFonts() map[FontRole]FontStack {
	return map[FontRole]FontStack{
		FontHeading: "Inter, system-ui, sans-serif",
		FontBody:    "Inter, system-ui, sans-serif",
		FontMono:    "JetBrains Mono, monospace",
	}
}
