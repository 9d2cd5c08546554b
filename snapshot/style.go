package snapshot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownUtilityClass is returned when a scene uses a class with no style rule
var ErrUnknownUtilityClass = errors.New("unknown utility class")

// FontStack is the font-family list used by the HTML backend
const FontStack = `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif`

// Rule is the resolved effect of one utility class.
// Both the CSS emitter and the software painter read the same table.
type Rule struct {
	Background   *Color
	BackdropBlur float64 // px
	Radius       float64 // px, FullRadius for pills and circles
	Border       *Color  // 1px solid
}

// FullRadius is the sentinel radius of rounded-full
const FullRadius = 9999

var utilityRules = map[string]Rule{
	"bg-white/5":  {Background: ptr(White(0.05))},
	"bg-white/6":  {Background: ptr(White(0.06))},
	"bg-white/8":  {Background: ptr(White(0.08))},
	"bg-white/10": {Background: ptr(White(0.10))},
	"bg-white/15": {Background: ptr(White(0.15))},
	"bg-white/20": {Background: ptr(White(0.20))},
	"bg-white/25": {Background: ptr(White(0.25))},
	"bg-white/30": {Background: ptr(White(0.30))},
	"bg-white/40": {Background: ptr(White(0.40))},

	"backdrop-blur-sm": {BackdropBlur: 4},
	"backdrop-blur":    {BackdropBlur: 8},
	"backdrop-blur-md": {BackdropBlur: 12},

	"rounded-md":   {Radius: 6},
	"rounded-lg":   {Radius: 8},
	"rounded-xl":   {Radius: 12},
	"rounded-2xl":  {Radius: 16},
	"rounded-3xl":  {Radius: 24},
	"rounded-full": {Radius: FullRadius},

	"border-white/30": {Border: ptr(White(0.30))},
	"border-white/40": {Border: ptr(White(0.40))},
}

func ptr[T any](v T) *T { return &v }

// LookupRule returns the rule for a utility class
func LookupRule(class string) (Rule, bool) {
	rule, ok := utilityRules[class]
	return rule, ok
}

// Resolve merges the rules of a node's classes with its explicit styling.
// Later classes win, explicit fields win over classes.
func Resolve(node Node) (Rule, error) {
	var out Rule
	for _, class := range node.Classes {
		rule, ok := utilityRules[class]
		if !ok {
			return Rule{}, fmt.Errorf("%w: %q", ErrUnknownUtilityClass, class)
		}
		if rule.Background != nil {
			out.Background = rule.Background
		}
		if rule.BackdropBlur > 0 {
			out.BackdropBlur = rule.BackdropBlur
		}
		if rule.Radius > 0 {
			out.Radius = rule.Radius
		}
		if rule.Border != nil {
			out.Border = rule.Border
		}
	}
	if node.Background != nil {
		out.Background = node.Background
	}
	if node.Radius > 0 {
		out.Radius = node.Radius
	}
	return out, nil
}

// StyleSheet emits the CSS for a scene: base rules restating box model,
// exact dimensions and clipping, then one rule per utility class in use.
func StyleSheet(scene Scene) (string, error) {
	if err := scene.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }\n")
	fmt.Fprintf(&b, "html, body { width: %dpx; height: %dpx; overflow: hidden; background: transparent; }\n", scene.Width, scene.Height)
	fmt.Fprintf(&b, "body { font-family: %s; -webkit-font-smoothing: antialiased; }\n", FontStack)
	fmt.Fprintf(&b, "[data-share-template] { position: relative; overflow: hidden; width: %dpx; height: %dpx; border-radius: %.0fpx; background: %s; }\n",
		scene.Width, scene.Height, scene.Radius, scene.Background.CSS())
	b.WriteString(".node { position: absolute; overflow: hidden; }\n")
	b.WriteString(".text { white-space: nowrap; text-overflow: ellipsis; }\n")
	b.WriteString(".image { object-fit: contain; }\n")

	classes := scene.UsedClasses()
	sort.Strings(classes)
	for _, class := range classes {
		b.WriteString(cssRule(class, utilityRules[class]))
	}
	return b.String(), nil
}

func cssRule(class string, rule Rule) string {
	var decls []string
	if rule.Background != nil {
		decls = append(decls, "background-color: "+rule.Background.CSS())
	}
	if rule.BackdropBlur > 0 {
		blur := fmt.Sprintf("blur(%.0fpx)", rule.BackdropBlur)
		decls = append(decls, "-webkit-backdrop-filter: "+blur, "backdrop-filter: "+blur)
	}
	if rule.Radius > 0 {
		decls = append(decls, fmt.Sprintf("border-radius: %.0fpx", rule.Radius))
	}
	if rule.Border != nil {
		decls = append(decls, "border: 1px solid "+rule.Border.CSS())
	}
	return fmt.Sprintf(".%s { %s; }\n", escapeClass(class), strings.Join(decls, "; "))
}

// escapeClass escapes the characters Tailwind-style names use that are not valid in a CSS selector
func escapeClass(class string) string {
	r := strings.NewReplacer("/", `\/`, ".", `\.`, ":", `\:`)
	return r.Replace(class)
}
