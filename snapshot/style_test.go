package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleSheet_CoversEveryUsedClass(t *testing.T) {
	scene := Layout(templateOf(t, "10", "18", "7", "9"))

	css, err := StyleSheet(scene)
	require.NoError(t, err)

	for _, class := range scene.UsedClasses() {
		assert.Contains(t, css, "."+escapeClass(class)+" {", class)
	}
	assert.Contains(t, css, "box-sizing: border-box")
	assert.Contains(t, css, "width: 360px; height: 480px")
	assert.Contains(t, css, "overflow: hidden")
}

func TestStyleSheet_RuleValues(t *testing.T) {
	scene := Scene{Width: 10, Height: 10, Nodes: []Node{
		{Name: "n", Classes: []string{"bg-white/20", "backdrop-blur-md", "rounded-full", "border-white/30"}},
	}}

	css, err := StyleSheet(scene)
	require.NoError(t, err)

	assert.Contains(t, css, `.bg-white\/20 { background-color: rgba(255, 255, 255, 0.20); }`)
	assert.Contains(t, css, "backdrop-filter: blur(12px)")
	assert.Contains(t, css, "border-radius: 9999px")
	assert.Contains(t, css, `.border-white\/30 { border: 1px solid rgba(255, 255, 255, 0.30); }`)
}

func TestStyleSheet_UnknownClassFails(t *testing.T) {
	scene := Scene{Width: 10, Height: 10, Nodes: []Node{{Name: "n", Classes: []string{"bg-white/33"}}}}

	_, err := StyleSheet(scene)
	assert.ErrorIs(t, err, ErrUnknownUtilityClass)
}

func TestStyleSheet_Deterministic(t *testing.T) {
	scene := Layout(templateOf(t, "1", "2"))
	first, err := StyleSheet(scene)
	require.NoError(t, err)
	second, err := StyleSheet(scene)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_ExplicitStylingWins(t *testing.T) {
	bg := White(0.5)
	rule, err := Resolve(Node{Classes: []string{"bg-white/20", "rounded-lg"}, Background: &bg, Radius: 3})
	require.NoError(t, err)

	assert.Equal(t, 0.5, rule.Background.A)
	assert.Equal(t, 3.0, rule.Radius)
}

func TestColorAndGradientCSS(t *testing.T) {
	assert.Equal(t, "#a855f7", Hex("#a855f7").CSS())
	assert.Equal(t, "rgba(255, 255, 255, 0.25)", White(0.25).CSS())

	g := Gradient{Direction: ToBottomRight, Stops: []Color{Hex("#000000"), Hex("#ffffff")}}
	assert.True(t, strings.HasPrefix(g.CSS(), "linear-gradient(to bottom right, #000000 0%"))
	assert.Equal(t, uint8(0), g.At(0).R)
	assert.Equal(t, uint8(255), g.At(1).R)
	assert.InDelta(t, 0.5, g.Param(10, 5, 20, 10), 1e-9)
}
