package snapshot

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an sRGB colour with a fractional alpha, matching CSS rgba()
type Color struct {
	R, G, B uint8
	A       float64
}

// White returns white at the given opacity
func White(alpha float64) Color {
	return Color{R: 255, G: 255, B: 255, A: alpha}
}

// Hex parses "#rrggbb" into an opaque Color. Malformed input yields opaque black.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return Color{A: 1}
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}
}

// CSS renders the colour as a CSS value
func (c Color) CSS() string {
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, c.A)
}

// NRGBA converts to a non-premultiplied Go colour
func (c Color) NRGBA() color.NRGBA {
	a := min(max(c.A, 0), 1)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a*255 + 0.5)}
}

// GradientDirection mirrors the CSS "to <side-or-corner>" keywords the template uses
type GradientDirection int

const (
	ToRight GradientDirection = iota
	ToBottomRight
)

// Gradient is a linear gradient with evenly spaced stops
type Gradient struct {
	Direction GradientDirection
	Stops     []Color
}

// CSS renders the gradient as a CSS linear-gradient()
func (g Gradient) CSS() string {
	dir := "to right"
	if g.Direction == ToBottomRight {
		dir = "to bottom right"
	}
	parts := []string{dir}
	for i, stop := range g.Stops {
		pos := 0.0
		if len(g.Stops) > 1 {
			pos = float64(i) / float64(len(g.Stops)-1) * 100
		}
		parts = append(parts, fmt.Sprintf("%s %.0f%%", stop.CSS(), pos))
	}
	return "linear-gradient(" + strings.Join(parts, ", ") + ")"
}

// At returns the gradient colour at t in [0,1]
func (g Gradient) At(t float64) color.NRGBA {
	switch len(g.Stops) {
	case 0:
		return color.NRGBA{}
	case 1:
		return g.Stops[0].NRGBA()
	}
	t = min(max(t, 0), 1)
	span := t * float64(len(g.Stops)-1)
	i := min(int(span), len(g.Stops)-2)
	f := span - float64(i)
	a, b := g.Stops[i].NRGBA(), g.Stops[i+1].NRGBA()
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5)
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

// Param maps a point inside a w×h box to the gradient parameter.
// For "to bottom right" the 50% line joins the top-right and bottom-left corners,
// which is what CSS does for corner keywords.
func (g Gradient) Param(x, y, w, h float64) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	if g.Direction == ToBottomRight {
		return (x/w + y/h) / 2
	}
	return x / w
}

// TextAlign is the horizontal alignment of a text node
type TextAlign int

const (
	AlignCenter TextAlign = iota
	AlignLeft
	AlignRight
)

func (a TextAlign) css() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "center"
	}
}

// Text is a single line of text, vertically centred in its node
type Text struct {
	Content string
	Size    float64 // logical px
	Weight  int     // CSS font-weight
	Color   Color
	Align   TextAlign
}

// Rect is an axis aligned box in logical pixels
type Rect struct {
	X, Y, W, H float64
}

// Node is one absolutely positioned element of the scene.
// Classes name utility rules from the style layer; Background, Gradient and Radius
// are explicit values for one-off styling.
type Node struct {
	Name       string
	Rect       Rect
	Classes    []string
	Background *Color
	Gradient   *Gradient
	Radius     float64
	Text       *Text
	Image      string // image source, must be a data: URI
}

// Scene is the declarative description of a snapshot.
// All geometry is absolute and in logical pixels, so every backend draws the
// same layout regardless of the device viewport.
type Scene struct {
	Width      int
	Height     int
	Radius     float64
	Background Gradient
	Nodes      []Node
}

// Validate checks that every utility class used by the scene has a style rule.
// A missing rule would make a backend silently draw the element opaque or unstyled.
func (s Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid scene size %dx%d", s.Width, s.Height)
	}
	for _, node := range s.Nodes {
		for _, class := range node.Classes {
			if _, ok := utilityRules[class]; !ok {
				return fmt.Errorf("%w: %q on node %s", ErrUnknownUtilityClass, class, node.Name)
			}
		}
	}
	return nil
}

// ExternalSources lists image sources that are not embedded data: URIs
func (s Scene) ExternalSources() []string {
	var sources []string
	for _, node := range s.Nodes {
		if node.Image != "" && !strings.HasPrefix(node.Image, "data:") {
			sources = append(sources, node.Image)
		}
	}
	return sources
}

// UsedClasses returns the distinct utility classes of the scene in first-use order
func (s Scene) UsedClasses() []string {
	seen := make(map[string]bool)
	var classes []string
	for _, node := range s.Nodes {
		for _, class := range node.Classes {
			if !seen[class] {
				seen[class] = true
				classes = append(classes, class)
			}
		}
	}
	return classes
}

// Find returns the first node with the given name
func (s Scene) Find(name string) (Node, bool) {
	for _, node := range s.Nodes {
		if node.Name == name {
			return node, true
		}
	}
	return Node{}, false
}
