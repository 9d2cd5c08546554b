// Package snapshot turns a price ranking into a shareable PNG image.
//
// The pipeline has three stages:
//
//  1. BuildTemplate projects an analysis into the fields the image shows.
//  2. Layout turns the template into a Scene: absolute boxes, fills, utility
//     classes and text in logical pixels. The Scene does not depend on any viewport.
//  3. A Rasterizer hands the Scene to a Backend (headless Chrome or the pure Go
//     painter), waits for the layout pass to settle, captures the bitmap and
//     normalizes it into an opaque PNG.
package snapshot

import (
	"errors"
	"time"

	"value-helper/models"
	"value-helper/pricing"
)

// MaxTopEntries is the number of ranked entries listed on the image
const MaxTopEntries = 3

// DefaultBrand is the app label printed on every snapshot
const DefaultBrand = "Value Helper"

// DateLayout formats the generation date stamp
const DateLayout = "January 2, 2006"

// ErrNothingToExport is returned when the ranking has no valid entry
var ErrNothingToExport = errors.New("nothing to export: no valid unit prices")

// Entry is one ranked item as shown on the image
type Entry struct {
	Rank           int
	Name           string
	DisplayPrice   string
	SavingsPercent float64
}

// Template is the read-only projection of an analysis into snapshot fields
type Template struct {
	Best           Entry
	Top            []Entry
	Remaining      int // ranked entries beyond Top
	Unit           string
	CategoryLabel  string
	GeneratedDate  string
	Brand          string
	CurrencySymbol string
	LogoSource     string // data: URI or empty
}

// TemplateOptions carries branding that does not come from the analysis
type TemplateOptions struct {
	Brand          string
	CurrencySymbol string
	LogoSource     string
}

// TotalEntries returns how many ranked entries the template summarizes
func (t Template) TotalEntries() int {
	return len(t.Top) + t.Remaining
}

// BuildTemplate projects the ranking of an analysis into a Template.
// The analysis is copied; later changes to it do not affect the template.
func BuildTemplate(analysis models.Analysis, unit, categoryLabel string, opts TemplateOptions, now time.Time) (Template, error) {
	if len(analysis.Ranking) == 0 {
		return Template{}, ErrNothingToExport
	}

	brand := opts.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	count := min(len(analysis.Ranking), MaxTopEntries)
	top := make([]Entry, 0, count)
	for _, ranked := range analysis.Ranking[:count] {
		top = append(top, entryFrom(ranked))
	}

	return Template{
		Best:           top[0],
		Top:            top,
		Remaining:      len(analysis.Ranking) - count,
		Unit:           unit,
		CategoryLabel:  categoryLabel,
		GeneratedDate:  now.Format(DateLayout),
		Brand:          brand,
		CurrencySymbol: opts.CurrencySymbol,
		LogoSource:     opts.LogoSource,
	}, nil
}

func entryFrom(ranked models.RankedEntry) Entry {
	return Entry{
		Rank:           ranked.Rank,
		Name:           pricing.DisplayName(ranked.Name, ranked.Position),
		DisplayPrice:   ranked.DisplayPrice,
		SavingsPercent: ranked.SavingsPercent,
	}
}
