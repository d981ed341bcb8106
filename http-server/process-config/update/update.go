package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"erp-golang/http-server/respond"
	"erp-golang/internal/storage"
)

type ProcessConfigUpdater interface {
	Update(ctx context.Context, id int64, patch storage.ProcessConfigPatch) (*storage.ProcessConfig, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64, to storage.ProcessStatus) (*storage.ProcessConfig, error)
}

func UpdateProcessConfig(log *slog.Logger, wf ProcessConfigUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.process-config.UpdateProcessConfig"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var patch storage.ProcessConfigPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		updated, err := wf.Update(ctx, id, patch)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, updated)
	}
}

func DeleteProcessConfig(log *slog.Logger, wf ProcessConfigUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.process-config.DeleteProcessConfig"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := wf.Delete(ctx, id); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("process config deleted", slog.String("op", op), slog.Int64("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}

// ChangeStatus: DRAFT -> ACTIVE -> ARCHIVED, назад нельзя
func ChangeStatus(log *slog.Logger, wf ProcessConfigUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.process-config.ChangeStatus"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Status storage.ProcessStatus `json:"status"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil || req.Status == "" {
			http.Error(w, "Missing required field 'status'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		updated, err := wf.ChangeStatus(ctx, id, req.Status)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("process config status changed", slog.String("op", op), slog.Int64("id", id), slog.String("status", string(updated.Status)))

		render.JSON(w, r, updated)
	}
}
