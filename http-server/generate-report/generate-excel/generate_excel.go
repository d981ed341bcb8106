package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"erp-golang/http-server/respond"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportGenerator interface {
	MaintenanceExcel(ctx context.Context, dueOnly bool) ([]byte, error)
	BOMExcel(ctx context.Context, bomID int64) ([]byte, error)
}

func MaintenanceReportExcel(log *slog.Logger, gen ReportGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.MaintenanceReportExcel"

		dueOnly := false
		if raw := r.URL.Query().Get("due"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, "invalid due parameter", http.StatusBadRequest)
				return
			}
			dueOnly = v
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second) // На Excel можно побольше времени
		defer cancel()

		excelBytes, err := gen.MaintenanceExcel(ctx, dueOnly)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		fileName := fmt.Sprintf("Maintenance_%s.xlsx", time.Now().Format("2006-01-02_150405"))
		writeExcel(w, fileName, excelBytes)
	}
}

func BOMExportExcel(log *slog.Logger, gen ReportGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.BOMExportExcel"

		id, err := respond.ID(r, "id")
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.BOMExcel(ctx, id)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		fileName := fmt.Sprintf("BOM_%d_%s.xlsx", id, time.Now().Format("2006-01-02_150405"))
		writeExcel(w, fileName, excelBytes)
	}
}

func writeExcel(w http.ResponseWriter, fileName string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	w.Write(data)
}
