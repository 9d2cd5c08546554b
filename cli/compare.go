package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"value-helper/app"
	"value-helper/delivery"
	"value-helper/models"
	"value-helper/pricing"
	"value-helper/utils"
)

type compareOptions struct {
	category string
	unit     string
	items    []string
	export   string
	share    bool
	download bool
	density  float64
}

func newCompareCmd(opts *options) *cobra.Command {
	co := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare unit prices of several items",
		Example: `  value-helper compare --category food --unit kg --item "Apples=10/2" --item "Pears=18/4"
  value-helper compare --item "Big pack=25/10" --item "Small pack=3/1" --export best.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), cmd.OutOrStdout(), opts, co)
		},
	}

	cmd.Flags().StringVar(&co.category, "category", "", "Product category (food, drinks, beauty, household)")
	cmd.Flags().StringVar(&co.unit, "unit", "", "Unit the quantities are measured in; defaults to the category's first unit")
	cmd.Flags().StringArrayVar(&co.items, "item", nil, `Item as "name=price/quantity"; repeat for every item`)
	cmd.Flags().StringVar(&co.export, "export", "", "Write the snapshot PNG to this path")
	cmd.Flags().BoolVar(&co.share, "share", false, "Share the snapshot (copies the share link to the clipboard)")
	cmd.Flags().BoolVar(&co.download, "download", false, "Save the snapshot to the download directory")
	cmd.Flags().Float64Var(&co.density, "density", 1, "Pixel density used to scale the snapshot")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// ParseItem parses "name=price/quantity". The name is optional ("=price/quantity" or
// "price/quantity"); price and quantity stay raw so the engine can flag invalid input.
func ParseItem(arg string) (models.Item, error) {
	name, rest := "", arg
	if i := strings.LastIndex(arg, "="); i >= 0 {
		name, rest = arg[:i], arg[i+1:]
	}
	price, quantity, ok := strings.Cut(rest, "/")
	if !ok {
		return models.Item{}, fmt.Errorf("invalid item %q: expected name=price/quantity", arg)
	}
	return models.Item{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		RawPrice:    strings.TrimSpace(price),
		RawQuantity: strings.TrimSpace(quantity),
	}, nil
}

func runCompare(ctx context.Context, out io.Writer, opts *options, co *compareOptions) error {
	req := models.AnalyzeRequest{Category: co.category, Unit: co.unit}
	for _, arg := range co.items {
		item, err := ParseItem(arg)
		if err != nil {
			return err
		}
		req.Items = append(req.Items, item)
	}

	application, err := app.Initialize(ctx, opts.cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	resp, err := application.Analysis.Analyze(ctx, req)
	if err != nil {
		return err
	}
	printAnalysis(out, resp, opts.cfg.Branding.CurrencySymbol)

	if co.export == "" && !co.share && !co.download {
		return nil
	}
	if !resp.HasValidData {
		return fmt.Errorf("nothing to export: enter at least one item with a valid price and quantity")
	}
	return exportSnapshot(ctx, out, application, req, co)
}

func printAnalysis(out io.Writer, resp models.AnalyzeResponse, symbol string) {
	unit := resp.Unit
	if unit == "" {
		unit = "unit"
	}

	fmt.Fprintf(out, "Unit prices (per %s):\n", unit)
	for _, up := range resp.UnitPrices {
		fmt.Fprintf(out, "  %-24s %s\n", pricing.DisplayName(up.Name, up.Position), utils.FormatMoney(symbol, up.DisplayPrice))
	}

	if len(resp.Ranking) == 0 {
		fmt.Fprintln(out, "No valid prices to compare.")
		return
	}

	fmt.Fprintln(out, "Ranking:")
	for _, entry := range resp.Ranking {
		note := "best value"
		if entry.Rank > 1 {
			note = "+" + utils.FormatPercent(entry.SavingsPercent) + "%"
		}
		fmt.Fprintf(out, "  #%d %-22s %s / %s  (%s)\n", entry.Rank, pricing.DisplayName(entry.Name, entry.Position),
			utils.FormatMoney(symbol, entry.DisplayPrice), unit, note)
	}
	if resp.Tip != "" {
		fmt.Fprintf(out, "💡 %s\n", resp.Tip)
	}
}

func exportSnapshot(ctx context.Context, out io.Writer, application *app.App, req models.AnalyzeRequest, co *compareOptions) error {
	tpl, err := application.Analysis.Template(ctx, req, time.Now())
	if err != nil {
		return err
	}

	session := application.Exports.Open(tpl)
	defer application.Exports.Close(session.ID)

	img, err := session.Generate(ctx, co.density)
	if err != nil {
		return fmt.Errorf("failed to generate snapshot: %w", err)
	}
	slog.Debug("🖼️ Snapshot generated", "width", img.Width, "height", img.Height, "bytes", len(img.PNG))

	if co.export != "" {
		if err := os.WriteFile(co.export, img.PNG, 0644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Fprintf(out, "🖼️ Snapshot written to %s (%dx%d)\n", co.export, img.Width, img.Height)
	}

	platform := &delivery.DesktopPlatform{
		DownloadDir: application.Config.Delivery.DownloadDir,
		Density:     co.density,
	}

	if co.share {
		report, err := session.Share(ctx, platform)
		if err != nil {
			return fmt.Errorf("failed to share snapshot: %w", err)
		}
		fmt.Fprintf(out, "📤 %s\n", report.Message)
	}

	if co.download {
		result, err := session.Download(ctx, platform)
		if err != nil {
			return fmt.Errorf("failed to download snapshot: %w", err)
		}
		if result.Saved {
			fmt.Fprintf(out, "💾 %s %s\n", result.Message, result.Location)
		} else {
			fmt.Fprintf(out, "💾 %s\n", result.Message)
		}
	}
	return nil
}
