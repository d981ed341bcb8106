package get

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

type BOMProvider interface {
	Get(ctx context.Context, id int64) (*bom.Detail, error)
	ListByProduct(ctx context.Context, productID int64) ([]*storage.BOM, error)
	Lineage(ctx context.Context, id int64) ([]storage.BOM, error)
}

// GetBOM отдаёт BOM с отсортированными строками и разрешёнными компонентами
func GetBOM(log *slog.Logger, boms BOMProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.GetBOM"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		detail, err := boms.Get(ctx, id)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, detail)
	}
}

func GetBOMsByProduct(log *slog.Logger, boms BOMProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.GetBOMsByProduct"

		productID, err := respond.QueryID(r, "product")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := boms.ListByProduct(ctx, productID)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		if list == nil {
			list = []*storage.BOM{}
		}

		render.JSON(w, r, list)
	}
}

func GetLineage(log *slog.Logger, boms BOMProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.GetLineage"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		chain, err := boms.Lineage(ctx, id)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, chain)
	}
}
