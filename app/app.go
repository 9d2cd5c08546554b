package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"value-helper/app/controller"
	"value-helper/app/router"
	"value-helper/config"
	"value-helper/db"
	"value-helper/repository"
	"value-helper/service"
	"value-helper/snapshot"
)

// App holds the wired services and the HTTP handler
type App struct {
	Config   *config.Config
	Analysis *service.AnalysisService
	Exports  *service.ExportService
	Handler  http.Handler

	usesDB bool
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	// Initialize category catalogue
	categories, err := a.categoryRepository(ctx)
	if err != nil {
		return nil, err
	}

	// Branding printed on snapshots
	branding := snapshot.TemplateOptions{
		Brand:          cfg.Branding.Brand,
		CurrencySymbol: cfg.Branding.CurrencySymbol,
	}
	if cfg.Branding.LogoPath != "" {
		logo, err := snapshot.LoadLogo(cfg.Branding.LogoPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to load logo: %w", err)
		}
		branding.LogoSource = logo
	}

	// Initialize snapshot backend
	backend, err := snapshot.NewBackend(cfg.Render.Backend, cfg.Render.ChromePath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize render backend: %w", err)
	}

	// Initialize services
	a.Analysis = service.NewAnalysisService(categories, branding)
	a.Exports = service.NewExportService(backend, service.ExportOptions{
		Render: snapshot.Config{
			SettleDelay:     cfg.SettleDelay(),
			Timeout:         cfg.RenderTimeout(),
			MaxCanvasPixels: cfg.Render.MaxCanvasPixels,
			PageColor:       pageColor(cfg.Render.PageColor),
		},
		TTL:        cfg.SessionTTL(),
		ShareLink:  cfg.ShareLink(),
		FilePrefix: cfg.Delivery.FilePrefix,
	})

	// Create controllers
	controllers := &router.Controllers{
		Analysis: controller.NewAnalysisController(a.Analysis),
		Snapshot: controller.NewSnapshotController(a.Analysis, a.Exports, cfg.Server.BaseURL, cfg.Delivery.FilePrefix),
		Delivery: controller.NewDeliveryController(a.Exports, cfg.Server.BaseURL),
	}

	// Setup routes using standard http router
	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)
	a.Handler = mux

	slog.Info("✅ Application initialized", "backend", backend.Name(), "database", a.usesDB)
	return a, nil
}

// categoryRepository picks PostgreSQL when a database URL is configured, then a
// YAML catalogue file, then the built-in categories
func (a *App) categoryRepository(ctx context.Context) (repository.CategoryRepositoryInterface, error) {
	cfg := a.Config
	if cfg.Database.URL != "" {
		if err := db.InitDB(ctx, cfg.Database.URL); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.usesDB = true

		repo := repository.NewCategoryRepository()
		if cfg.Database.Seed {
			if err := repo.EnsureSchema(ctx); err != nil {
				a.Close()
				return nil, err
			}
		}
		return repo, nil
	}

	if cfg.Categories.File != "" {
		categories, err := repository.LoadCategoriesFile(cfg.Categories.File)
		if err != nil {
			return nil, err
		}
		slog.Info("📂 Loaded category catalogue", "file", cfg.Categories.File, "categories", len(categories))
		return repository.NewStaticCategoryRepository(categories), nil
	}

	return repository.NewStaticCategoryRepository(repository.DefaultCategories()), nil
}

// pageColor leaves the colour unset for an empty value so the rasterizer default applies
func pageColor(hex string) snapshot.Color {
	if hex == "" {
		return snapshot.Color{}
	}
	return snapshot.Hex(hex)
}

// Close dismisses every export session and closes the database
func (a *App) Close() error {
	var errs []error
	if a.Exports != nil {
		a.Exports.Shutdown()
	}
	if a.usesDB {
		a.usesDB = false
		if err := db.CloseDB(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
