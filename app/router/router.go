package router

import (
	"net/http"

	"value-helper/app/controller"
	"value-helper/metrics"
)

type Controllers struct {
	Analysis *controller.AnalysisController
	Snapshot *controller.SnapshotController
	Delivery *controller.DeliveryController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("GET /ping", pingHandler)

	// Prometheus metrics
	mux.Handle("GET /metrics", metrics.Handler())

	// Price analysis routes
	mux.HandleFunc("GET /api/categories", controllers.Analysis.ListCategories)
	mux.HandleFunc("POST /api/analyze", controllers.Analysis.Analyze)

	// Export session routes
	mux.HandleFunc("POST /api/snapshots", controllers.Snapshot.Open)
	mux.HandleFunc("GET /api/snapshots/{id}/preview", controllers.Snapshot.Preview)
	mux.HandleFunc("POST /api/snapshots/{id}/generate", controllers.Snapshot.Generate)
	mux.HandleFunc("POST /api/snapshots/{id}/reset", controllers.Snapshot.Reset)
	mux.HandleFunc("GET /api/snapshots/{id}/image", controllers.Snapshot.Image)
	mux.HandleFunc("DELETE /api/snapshots/{id}", controllers.Snapshot.Close)

	// Delivery routes
	mux.HandleFunc("POST /api/snapshots/{id}/share", controllers.Delivery.Share)
	mux.HandleFunc("POST /api/snapshots/{id}/download", controllers.Delivery.Download)
}
