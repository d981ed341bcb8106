package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	getbom "erp-golang/http-server/bom/get"
	savebom "erp-golang/http-server/bom/save"
	upbom "erp-golang/http-server/bom/update"
	generate_excel "erp-golang/http-server/generate-report/generate-excel"
	getmachines "erp-golang/http-server/machines/get"
	upmachines "erp-golang/http-server/machines/update"
	getconfig "erp-golang/http-server/process-config/get"
	saveconfig "erp-golang/http-server/process-config/save"
	upconfig "erp-golang/http-server/process-config/update"
	getproducts "erp-golang/http-server/products/get"
	"erp-golang/internal/config"
	"erp-golang/internal/metrics"
	"erp-golang/internal/middleware/auth"
	"erp-golang/internal/service/bom"
	"erp-golang/internal/service/maintenance"
	"erp-golang/internal/service/report"
	"erp-golang/internal/service/workflow"
)

type Services struct {
	BOM         *bom.Service
	Workflow    *workflow.Service
	Maintenance *maintenance.Service
	Report      *report.Service
}

func routes(cfg config.Config, log *slog.Logger, products getproducts.ProductProvider, services Services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}

		// Справочник изделий
		r.Get("/products", getproducts.GetProducts(log, products))
		r.Get("/products/{id}", getproducts.GetProduct(log, products))

		// Спецификации (BOM)
		r.Get("/boms", getbom.GetBOMsByProduct(log, services.BOM))
		r.Post("/boms", savebom.SaveBOM(log, services.BOM))
		r.Route("/boms/{id}", func(r chi.Router) {
			r.Get("/", getbom.GetBOM(log, services.BOM))
			r.Get("/lineage", getbom.GetLineage(log, services.BOM))
			r.Get("/export", generate_excel.BOMExportExcel(log, services.Report))
			r.Post("/versions", savebom.SaveVersion(log, services.BOM))
			r.Patch("/toggle-active", upbom.ToggleActive(log, services.BOM))

			r.Post("/components", savebom.AddComponent(log, services.BOM))
			r.Patch("/components/{componentId}", upbom.UpdateComponent(log, services.BOM))
			r.Delete("/components/{componentId}", upbom.DeleteComponent(log, services.BOM))
		})

		// Маршруты изготовления и станки
		r.Route("/manufacturing", func(r chi.Router) {
			r.Get("/processes", getconfig.GetProcesses(log, services.Workflow))

			r.Get("/process-configs", getconfig.GetPipeline(log, services.Workflow))
			r.Post("/process-configs", saveconfig.SaveProcessConfig(log, services.Workflow))
			r.Patch("/process-configs/{id}", upconfig.UpdateProcessConfig(log, services.Workflow))
			r.Delete("/process-configs/{id}", upconfig.DeleteProcessConfig(log, services.Workflow))
			r.Post("/process-configs/{id}/status", upconfig.ChangeStatus(log, services.Workflow))

			r.Get("/machines", getmachines.GetMachines(log, services.Maintenance))
			r.Get("/machines/{id}", getmachines.GetMachine(log, services.Maintenance))
			r.Post("/machines/{id}/maintenance", upmachines.RecordMaintenance(log, services.Maintenance))
		})

		r.Get("/report/maintenance", generate_excel.MaintenanceReportExcel(log, services.Report))

		// adminPanel
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

			r.Post("/boms/{id}/approve", upbom.ApproveBOM(log, services.BOM))
			r.Patch("/machines/{id}/status", upmachines.ChangeStatus(log, services.Maintenance))
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return router
}
