package respond

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"erp-golang/internal/errs"
)

// Error пишет ответ по доменной ошибке. 5xx логируются как Error, остальное как Warn
func Error(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	status := errs.HTTPStatus(err)

	l := log.With(slog.String("op", op), slog.String("error", err.Error()))
	if status == http.StatusInternalServerError {
		l.Error("request failed")
	} else {
		l.Warn("request rejected", slog.Int("status", status))
	}

	http.Error(w, errs.Message(err), status)
}

// ID достаёт положительный числовой параметр маршрута
func ID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}

	return id, nil
}

// QueryID — то же для query-параметра
func QueryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing required query parameter %q", name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid query parameter %s=%q", name, raw)
	}

	return id, nil
}
