package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"erp-golang/http-server/respond"
	"erp-golang/internal/service/bom"
	"erp-golang/internal/storage"
)

type BOMUpdater interface {
	UpdateComponent(ctx context.Context, bomID, componentID int64, patch storage.ComponentPatch) (*bom.Detail, error)
	RemoveComponent(ctx context.Context, bomID, componentID int64) (*bom.Detail, error)
	ToggleActive(ctx context.Context, bomID int64) (*storage.BOM, error)
	Approve(ctx context.Context, bomID int64) (*storage.BOM, error)
}

func ids(r *http.Request) (int64, int64, bool) {
	bomID, err := respond.ID(r, "id")
	if err != nil {
		return 0, 0, false
	}
	componentID, err := respond.ID(r, "componentId")
	if err != nil {
		return 0, 0, false
	}
	return bomID, componentID, true
}

func UpdateComponent(log *slog.Logger, boms BOMUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.UpdateComponent"

		bomID, componentID, ok := ids(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var patch storage.ComponentPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		if patch.SequenceOrder == nil && patch.Quantity == nil && patch.Notes == nil {
			http.Error(w, "Nothing to update", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		detail, err := boms.UpdateComponent(ctx, bomID, componentID, patch)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, detail)
	}
}

func DeleteComponent(log *slog.Logger, boms BOMUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.DeleteComponent"

		bomID, componentID, ok := ids(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		detail, err := boms.RemoveComponent(ctx, bomID, componentID)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, detail)
	}
}

func ToggleActive(log *slog.Logger, boms BOMUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.ToggleActive"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		b, err := boms.ToggleActive(ctx, id)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("bom toggled", slog.String("op", op), slog.Int64("id", id), slog.Bool("is_active", b.IsActive))

		render.JSON(w, r, b)
	}
}

// ApproveBOM доступен только из админки
func ApproveBOM(log *slog.Logger, boms BOMUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.ApproveBOM"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		b, err := boms.Approve(ctx, id)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("bom approved", slog.String("op", op), slog.Int64("id", id))

		render.JSON(w, r, b)
	}
}
