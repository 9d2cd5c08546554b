package snapshot

import (
	"fmt"

	"value-helper/utils"
)

// Logical canvas size. The image is 3:4 portrait regardless of device.
const (
	LogicalWidth  = 360
	LogicalHeight = 480
)

const (
	pad       = 16.0
	innerPad  = 12.0
	rowHeight = 30.0
	rowGap    = 6.0
)

var (
	backgroundGradient = Gradient{Direction: ToBottomRight, Stops: []Color{Hex("#a855f7"), Hex("#4f46e5"), Hex("#2563eb")}}
	bestIconGradient   = Gradient{Direction: ToBottomRight, Stops: []Color{Hex("#fbbf24"), Hex("#f97316")}}
	rankIconGradient   = Gradient{Direction: ToBottomRight, Stops: []Color{Hex("#60a5fa"), Hex("#6366f1")}}
	priceBoxGradient   = Gradient{Direction: ToRight, Stops: []Color{{R: 34, G: 197, B: 94, A: 0.8}, {R: 16, G: 185, B: 129, A: 0.8}}}
)

type badgeStyle struct {
	fill Gradient
	text Color
}

var badgeStyles = map[int]badgeStyle{
	1: {fill: Gradient{Direction: ToBottomRight, Stops: []Color{Hex("#fbbf24"), Hex("#eab308")}}, text: Hex("#92400e")},
	2: {fill: Gradient{Direction: ToBottomRight, Stops: []Color{Hex("#d1d5db"), Hex("#9ca3af")}}, text: Hex("#374151")},
	3: {fill: Gradient{Direction: ToBottomRight, Stops: []Color{Hex("#fb923c"), Hex("#f97316")}}, text: Hex("#7c2d12")},
}

// Layout places the template on the logical canvas.
// Every coordinate is absolute so backends never depend on viewport units.
func Layout(tpl Template) Scene {
	scene := Scene{
		Width:      LogicalWidth,
		Height:     LogicalHeight,
		Radius:     24,
		Background: backgroundGradient,
	}
	l := &layouter{scene: &scene}

	l.decorations()
	l.header(tpl)
	l.bestCard(tpl)
	if len(tpl.Top) > 1 {
		l.rankingCard(tpl)
	}
	l.footer(tpl)
	return scene
}

type layouter struct {
	scene *Scene
}

func (l *layouter) add(n Node) {
	l.scene.Nodes = append(l.scene.Nodes, n)
}

func (l *layouter) text(name string, r Rect, content string, size float64, weight int, c Color, align TextAlign) {
	l.add(Node{Name: name, Rect: r, Text: &Text{Content: content, Size: size, Weight: weight, Color: c, Align: align}})
}

func (l *layouter) decorations() {
	w, h := float64(LogicalWidth), float64(LogicalHeight)
	l.add(Node{Name: "decor-1", Rect: Rect{X: w - 64, Y: -64, W: 128, H: 128}, Classes: []string{"bg-white/8", "rounded-full"}})
	l.add(Node{Name: "decor-2", Rect: Rect{X: w - 104, Y: 80, W: 64, H: 64}, Classes: []string{"bg-white/5", "rounded-full"}})
	l.add(Node{Name: "decor-3", Rect: Rect{X: -40, Y: h - 40, W: 80, H: 80}, Classes: []string{"bg-white/6", "rounded-full"}})
	l.add(Node{Name: "decor-4", Rect: Rect{X: 32, Y: h - 112, W: 32, H: 32}, Classes: []string{"bg-white/8", "rounded-full"}})
}

func (l *layouter) header(tpl Template) {
	pill := Rect{X: (LogicalWidth - 170) / 2, Y: 16, W: 170, H: 32}
	l.add(Node{Name: "brand-pill", Rect: pill, Classes: []string{"bg-white/25", "backdrop-blur-sm", "rounded-2xl"}})

	brandRect := pill
	if tpl.LogoSource != "" {
		l.add(Node{Name: "logo", Rect: Rect{X: pill.X + 8, Y: pill.Y + 6, W: 20, H: 20}, Image: tpl.LogoSource})
		brandRect = Rect{X: pill.X + 30, Y: pill.Y, W: pill.W - 38, H: pill.H}
	}
	l.text("brand", brandRect, tpl.Brand, 18, 700, White(1), AlignCenter)

	l.text("tagline", Rect{X: pad, Y: 52, W: LogicalWidth - 2*pad, H: 16}, "Shop smart, save more", 13, 600, White(0.95), AlignCenter)

	stamp := tpl.GeneratedDate
	if tpl.CategoryLabel != "" {
		stamp += " · " + tpl.CategoryLabel
	}
	date := Rect{X: (LogicalWidth - 200) / 2, Y: 72, W: 200, H: 20}
	l.add(Node{Name: "date-pill", Rect: date, Classes: []string{"bg-white/15", "backdrop-blur", "rounded-2xl"}})
	l.text("date", date, stamp, 11, 500, White(0.85), AlignCenter)
}

func (l *layouter) bestCard(tpl Template) {
	card := Rect{X: pad, Y: 102, W: LogicalWidth - 2*pad, H: 128}
	l.add(Node{Name: "best-card", Rect: card, Classes: []string{"bg-white/30", "backdrop-blur-md", "rounded-xl", "border-white/40"}})

	icon := Rect{X: card.X + innerPad, Y: card.Y + 10, W: 26, H: 26}
	l.add(Node{Name: "best-icon", Rect: icon, Gradient: ptr(bestIconGradient), Radius: FullRadius})
	l.text("best-icon-glyph", icon, tpl.CurrencySymbol, 13, 700, White(1), AlignCenter)
	l.text("best-title", Rect{X: icon.X + icon.W + 8, Y: icon.Y, W: 200, H: icon.H}, "Best value", 15, 700, White(1), AlignLeft)

	inner := card.W - 2*innerPad
	name := Rect{X: card.X + innerPad, Y: card.Y + 42, W: inner, H: 32}
	l.add(Node{Name: "best-name-box", Rect: name, Classes: []string{"bg-white/20", "backdrop-blur", "rounded-lg"}})
	l.text("best-name", Rect{X: name.X + 8, Y: name.Y, W: name.W - 16, H: name.H}, tpl.Best.Name, 15, 700, White(1), AlignCenter)

	price := Rect{X: card.X + innerPad, Y: card.Y + 80, W: inner, H: 40}
	l.add(Node{Name: "best-price-box", Rect: price, Gradient: ptr(priceBoxGradient), Classes: []string{"backdrop-blur", "rounded-lg"}})
	l.text("best-price-label", Rect{X: price.X, Y: price.Y + 2, W: price.W, H: 12}, "Unit price", 10, 500, White(0.9), AlignCenter)
	l.text("best-price", Rect{X: price.X, Y: price.Y + 14, W: price.W, H: 24}, priceWithUnit(tpl, tpl.Best), 18, 900, White(1), AlignCenter)
}

func (l *layouter) rankingCard(tpl Template) {
	top := 240.0
	card := Rect{X: pad, Y: top, W: LogicalWidth - 2*pad}

	icon := Rect{X: card.X + innerPad, Y: top + 10, W: 22, H: 22}
	rowsTop := top + 40
	rowsEnd := rowsTop + float64(len(tpl.Top))*(rowHeight+rowGap) - rowGap
	bottom := rowsEnd
	if tpl.Remaining > 0 {
		bottom += 4 + 14
	}
	card.H = bottom + 8 - top

	l.add(Node{Name: "ranking-card", Rect: card, Classes: []string{"bg-white/20", "backdrop-blur-md", "rounded-xl", "border-white/30"}})
	l.add(Node{Name: "ranking-icon", Rect: icon, Gradient: ptr(rankIconGradient), Radius: 6})
	l.text("ranking-icon-glyph", icon, "#", 12, 700, White(1), AlignCenter)
	l.text("ranking-title", Rect{X: icon.X + icon.W + 8, Y: icon.Y, W: 200, H: icon.H}, "Price ranking", 13, 700, White(1), AlignLeft)

	rowW := card.W - 2*innerPad
	for i, entry := range tpl.Top {
		y := rowsTop + float64(i)*(rowHeight+rowGap)
		row := Rect{X: card.X + innerPad, Y: y, W: rowW, H: rowHeight}
		prefix := fmt.Sprintf("rank-%d", entry.Rank)
		l.add(Node{Name: prefix + "-row", Rect: row, Classes: []string{"bg-white/15", "backdrop-blur", "rounded-lg"}})

		badge := Rect{X: row.X + 8, Y: y + 4, W: 22, H: 22}
		style, ok := badgeStyles[entry.Rank]
		if !ok {
			style = badgeStyle{fill: Gradient{Stops: []Color{White(0.3)}}, text: White(1)}
		}
		l.add(Node{Name: prefix + "-badge", Rect: badge, Gradient: ptr(style.fill), Radius: FullRadius})
		l.text(prefix+"-badge-number", badge, fmt.Sprint(entry.Rank), 11, 700, style.text, AlignCenter)

		pricePill := Rect{X: row.X + row.W - 8 - 76, Y: y + 5, W: 76, H: 20}
		nameX := badge.X + badge.W + 8
		l.text(prefix+"-name", Rect{X: nameX, Y: y, W: pricePill.X - 8 - nameX, H: rowHeight}, entry.Name, 11, 600, White(1), AlignLeft)
		l.add(Node{Name: prefix + "-price-pill", Rect: pricePill, Classes: []string{"bg-white/25", "backdrop-blur", "rounded-md"}})
		l.text(prefix+"-price", pricePill, utils.FormatMoney(tpl.CurrencySymbol, entry.DisplayPrice), 11, 700, White(1), AlignCenter)
	}

	if tpl.Remaining > 0 {
		more := fmt.Sprintf("+%d more items", tpl.Remaining)
		if tpl.Remaining == 1 {
			more = "+1 more item"
		}
		l.text("ranking-more", Rect{X: card.X, Y: rowsEnd + 4, W: card.W, H: 14}, more, 10, 500, White(0.7), AlignCenter)
	}
}

func (l *layouter) footer(tpl Template) {
	l.add(Node{Name: "footer-divider", Rect: Rect{X: pad, Y: 414, W: LogicalWidth - 2*pad, H: 1}, Background: ptr(White(0.25))})

	pill := Rect{X: (LogicalWidth - 210) / 2, Y: 422, W: 210, H: 22}
	l.add(Node{Name: "footer-pill", Rect: pill, Classes: []string{"bg-white/25", "backdrop-blur-md", "rounded-2xl"}})
	l.text("footer-credit", pill, "Generated by "+tpl.Brand, 11, 600, White(0.95), AlignCenter)
	l.text("footer-slogan", Rect{X: pad, Y: 448, W: LogicalWidth - 2*pad, H: 14}, "Make every penny count", 10, 500, White(0.6), AlignCenter)
}

func priceWithUnit(tpl Template, entry Entry) string {
	price := utils.FormatMoney(tpl.CurrencySymbol, entry.DisplayPrice)
	if tpl.Unit == "" {
		return price
	}
	return price + " / " + tpl.Unit
}
