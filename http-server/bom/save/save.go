package save

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

type BOMCreator interface {
	Create(ctx context.Context, productID int64, version string, components []storage.BOMComponent) (*bom.Detail, error)
	AddComponent(ctx context.Context, bomID int64, c storage.BOMComponent) (*bom.Detail, error)
	CreateVersion(ctx context.Context, parentID int64, version string) (*bom.Detail, error)
}

type CreateRequest struct {
	Product    int64                  `json:"product"`
	Version    string                 `json:"version"`
	Components []storage.BOMComponent `json:"components"`
}

func SaveBOM(log *slog.Logger, boms BOMCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.SaveBOM"

		var req CreateRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("ошибка парсинга JSON")
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		detail, err := boms.Create(ctx, req.Product, req.Version, req.Components)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("bom created", slog.String("op", op), slog.Int64("id", detail.BOM.ID), slog.String("version", detail.BOM.Version))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, detail)
	}
}

func AddComponent(log *slog.Logger, boms BOMCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.AddComponent"

		bomID, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var c storage.BOMComponent
		if err := render.DecodeJSON(r.Body, &c); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		detail, err := boms.AddComponent(ctx, bomID, c)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, detail)
	}
}

func SaveVersion(log *slog.Logger, boms BOMCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.SaveVersion"

		parentID, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Version string `json:"version"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		detail, err := boms.CreateVersion(ctx, parentID, req.Version)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("bom version created", slog.String("op", op), slog.Int64("parent", parentID), slog.Int64("id", detail.BOM.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, detail)
	}
}
