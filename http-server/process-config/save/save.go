package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"erp-golang/http-server/respond"
	"erp-golang/internal/storage"
)

type ProcessConfigCreator interface {
	Create(ctx context.Context, c storage.ProcessConfig) (*storage.ProcessConfig, error)
}

func SaveProcessConfig(log *slog.Logger, wf ProcessConfigCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.process-config.SaveProcessConfig"

		var req storage.ProcessConfig
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("ошибка парсинга JSON")
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		// id и служебные поля назначает хранилище
		req.ID = 0
		req.ProcessCode, req.ProcessName = "", ""

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		created, err := wf.Create(ctx, req)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("process config created",
			slog.String("op", op),
			slog.Int64("id", created.ID),
			slog.Int64("product", created.Product),
			slog.Int("sequence_order", created.SequenceOrder),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}
