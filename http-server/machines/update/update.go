package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"erp-golang/http-server/respond"
	"erp-golang/internal/service/maintenance"
	"erp-golang/internal/storage"
)

type MachineUpdater interface {
	RecordMaintenance(ctx context.Context, id int64, performed storage.Date) (*maintenance.Schedule, error)
	ChangeStatus(ctx context.Context, id int64, to storage.MachineStatus) (*maintenance.Schedule, error)
}

func RecordMaintenance(log *slog.Logger, machines MachineUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.RecordMaintenance"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			LastMaintenanceDate storage.Date `json:"last_maintenance_date"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		schedule, err := machines.RecordMaintenance(ctx, id, req.LastMaintenanceDate)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("maintenance recorded",
			slog.String("op", op),
			slog.Int64("id", id),
			slog.String("date", req.LastMaintenanceDate.String()),
		)

		render.JSON(w, r, schedule)
	}
}

// ChangeStatus доступен только из админки
func ChangeStatus(log *slog.Logger, machines MachineUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.ChangeStatus"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Status storage.MachineStatus `json:"status"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil || req.Status == "" {
			http.Error(w, "Missing required field 'status'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		schedule, err := machines.ChangeStatus(ctx, id, req.Status)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("machine status changed", slog.String("op", op), slog.Int64("id", id), slog.String("status", string(req.Status)))

		render.JSON(w, r, schedule)
	}
}
