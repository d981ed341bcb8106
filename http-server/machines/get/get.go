package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"erp-golang/http-server/respond"
	"erp-golang/internal/service/maintenance"
)

type ScheduleProvider interface {
	Get(ctx context.Context, id int64) (*maintenance.Schedule, error)
	List(ctx context.Context, dueOnly bool) ([]maintenance.Schedule, error)
}

// GetMachines: ?due=true оставляет только станки, которым пора на обслуживание
func GetMachines(log *slog.Logger, schedules ScheduleProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.GetMachines"

		dueOnly := false
		if raw := r.URL.Query().Get("due"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, "Invalid 'due' parameter", http.StatusBadRequest)
				return
			}
			dueOnly = v
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := schedules.List(ctx, dueOnly)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		if list == nil {
			list = []maintenance.Schedule{}
		}

		render.JSON(w, r, list)
	}
}

func GetMachine(log *slog.Logger, schedules ScheduleProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.GetMachine"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		schedule, err := schedules.Get(ctx, id)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, schedule)
	}
}
