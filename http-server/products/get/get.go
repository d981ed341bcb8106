package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"erp-golang/http-server/respond"
	"erp-golang/internal/storage"
)

type ProductProvider interface {
	GetProduct(ctx context.Context, id int64) (*storage.Product, error)
	GetProducts(ctx context.Context, productType string) ([]*storage.Product, error)
}

func GetProducts(log *slog.Logger, products ProductProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.GetProducts"

		productType := r.URL.Query().Get("type")
		if productType != "" && !storage.ProductType(productType).Valid() {
			http.Error(w, "Invalid product type", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := products.GetProducts(ctx, productType)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		if list == nil {
			list = []*storage.Product{}
		}

		render.JSON(w, r, list)
	}
}

func GetProduct(log *slog.Logger, products ProductProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.GetProduct"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		product, err := products.GetProduct(ctx, id)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, product)
	}
}
