package snapshot

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/snapshot.html
var snapshotHTML string

var documentTemplate = template.Must(template.New("snapshot").Parse(snapshotHTML))

type htmlNode struct {
	Class string
	Style template.CSS
	Text  string
	Image template.URL
}

type htmlDocument struct {
	Title      string
	Width      int
	StyleSheet template.CSS
	Nodes      []htmlNode
}

// RenderHTML renders the scene as a standalone HTML document.
// The markup only uses absolute pixel geometry; the style sheet carries every rule.
func RenderHTML(scene Scene, title string) (string, error) {
	css, err := StyleSheet(scene)
	if err != nil {
		return "", err
	}

	doc := htmlDocument{
		Title:      title,
		Width:      scene.Width,
		StyleSheet: template.CSS(css),
		Nodes:      make([]htmlNode, 0, len(scene.Nodes)),
	}
	for _, node := range scene.Nodes {
		doc.Nodes = append(doc.Nodes, toHTMLNode(node))
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render snapshot document: %w", err)
	}
	return buf.String(), nil
}

func toHTMLNode(node Node) htmlNode {
	decls := []string{
		fmt.Sprintf("left: %.2fpx", node.Rect.X),
		fmt.Sprintf("top: %.2fpx", node.Rect.Y),
		fmt.Sprintf("width: %.2fpx", node.Rect.W),
		fmt.Sprintf("height: %.2fpx", node.Rect.H),
	}

	out := htmlNode{Class: strings.Join(append([]string{"node"}, node.Classes...), " ")}
	switch {
	case node.Image != "":
		out.Image = template.URL(node.Image)
	case node.Text != nil:
		t := node.Text
		out.Text = t.Content
		decls = append(decls,
			fmt.Sprintf("font-size: %.0fpx", t.Size),
			fmt.Sprintf("font-weight: %d", t.Weight),
			fmt.Sprintf("line-height: %.2fpx", node.Rect.H),
			"color: "+t.Color.CSS(),
			"text-align: "+t.Align.css(),
		)
	default:
		if node.Gradient != nil {
			decls = append(decls, "background: "+node.Gradient.CSS())
		} else if node.Background != nil {
			decls = append(decls, "background-color: "+node.Background.CSS())
		}
		if node.Radius > 0 {
			decls = append(decls, fmt.Sprintf("border-radius: %.0fpx", node.Radius))
		}
	}
	out.Style = template.CSS(strings.Join(decls, "; "))
	return out
}
