package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"erp-golang/http-server/respond"
	"erp-golang/internal/service/workflow"
	"erp-golang/internal/storage"
)

type WorkflowProvider interface {
	Processes(ctx context.Context) ([]*storage.ManufacturingProcess, error)
	Pipeline(ctx context.Context, productID int64) (*workflow.Pipeline, error)
}

func GetProcesses(log *slog.Logger, wf WorkflowProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.process-config.GetProcesses"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		processes, err := wf.Processes(ctx)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		if processes == nil {
			processes = []*storage.ManufacturingProcess{}
		}

		render.JSON(w, r, processes)
	}
}

// GetPipeline отдаёт маршрут изделия по sequence_order вместе с суммарными временами
func GetPipeline(log *slog.Logger, wf WorkflowProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.process-config.GetPipeline"

		productID, err := respond.QueryID(r, "product")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		pipeline, err := wf.Pipeline(ctx, productID)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, pipeline)
	}
}
