package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"erp-golang/internal/service/bom"
	"erp-golang/internal/service/maintenance"
)

type ScheduleProvider interface {
	List(ctx context.Context, dueOnly bool) ([]maintenance.Schedule, error)
}

type BOMProvider interface {
	Get(ctx context.Context, id int64) (*bom.Detail, error)
}

type Service struct {
	schedules ScheduleProvider
	boms      BOMProvider
}

func NewService(schedules ScheduleProvider, boms BOMProvider) *Service {
	return &Service{schedules: schedules, boms: boms}
}

func (s *Service) MaintenanceExcel(ctx context.Context, dueOnly bool) ([]byte, error) {
	const op = "service.report.MaintenanceExcel"

	schedules, err := s.schedules.List(ctx, dueOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := MaintenanceSheet(schedules)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

func (s *Service) BOMExcel(ctx context.Context, bomID int64) ([]byte, error) {
	const op = "service.report.BOMExcel"

	detail, err := s.boms.Get(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := BOMSheet(detail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

const (
	maintenanceSheet = "Обслуживание"
	bomSheet         = "Спецификация"
)

func MaintenanceSheet(schedules []maintenance.Schedule) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", maintenanceSheet); err != nil {
		return nil, err
	}

	headers := []string{"Код", "Наименование", "Тип", "Статус", "Интервал, дн", "Последнее ТО", "Следующее ТО", "Дней до ТО", "Требуется ТО"}
	if err := writeHeader(f, maintenanceSheet, headers); err != nil {
		return nil, err
	}

	// просроченные подсвечиваем
	overdueStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F8D7DA"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, s := range schedules {
		row := i + 2

		f.SetCellValue(maintenanceSheet, cellName(1, row), s.MachineCode)
		f.SetCellValue(maintenanceSheet, cellName(2, row), s.MachineName)
		f.SetCellValue(maintenanceSheet, cellName(3, row), s.MachineType)
		f.SetCellValue(maintenanceSheet, cellName(4, row), string(s.Status))
		f.SetCellValue(maintenanceSheet, cellName(5, row), s.MaintenanceInterval)

		if s.LastMaintenanceDate != nil {
			f.SetCellValue(maintenanceSheet, cellName(6, row), s.LastMaintenanceDate.String())
		} else {
			f.SetCellValue(maintenanceSheet, cellName(6, row), "-")
		}
		if s.NextMaintenanceDate != nil {
			f.SetCellValue(maintenanceSheet, cellName(7, row), s.NextMaintenanceDate.String())
		} else {
			f.SetCellValue(maintenanceSheet, cellName(7, row), "-")
		}
		if s.DaysUntilDue != nil {
			f.SetCellValue(maintenanceSheet, cellName(8, row), *s.DaysUntilDue)
		}

		if s.NeedsMaintenance {
			f.SetCellValue(maintenanceSheet, cellName(9, row), "да")
			f.SetCellStyle(maintenanceSheet, cellName(1, row), cellName(len(headers), row), overdueStyle)
		} else {
			f.SetCellValue(maintenanceSheet, cellName(9, row), "нет")
		}
	}

	f.SetColWidth(maintenanceSheet, "A", "I", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func BOMSheet(detail *bom.Detail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bomSheet); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("BOM %d, версия %s", detail.BOM.ID, detail.BOM.Version)
	if detail.Product != nil {
		title = fmt.Sprintf("%s %s, версия %s", detail.Product.ProductCode, detail.Product.ProductName, detail.BOM.Version)
	}
	f.SetCellValue(bomSheet, "A1", title)

	headers := []string{"Позиция", "Тип", "Код", "Наименование", "Количество", "Ед.", "Примечание"}
	for i, name := range headers {
		f.SetCellValue(bomSheet, cellName(i+1, 2), name)
	}

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return nil, err
	}
	f.SetCellStyle(bomSheet, "A2", cellName(len(headers), 2), headerStyle)

	for i, line := range detail.Lines {
		row := i + 3

		code, name := lineLabel(line.Resolved)

		f.SetCellValue(bomSheet, cellName(1, row), line.SequenceOrder)
		f.SetCellValue(bomSheet, cellName(2, row), string(line.Resolved.Kind()))
		f.SetCellValue(bomSheet, cellName(3, row), code)
		f.SetCellValue(bomSheet, cellName(4, row), name)
		// строкой, чтобы не потерять точность
		f.SetCellValue(bomSheet, cellName(5, row), line.Quantity.String())
		f.SetCellValue(bomSheet, cellName(6, row), line.Unit)
		if line.Notes != nil {
			f.SetCellValue(bomSheet, cellName(7, row), *line.Notes)
		}
	}

	f.SetPanes(bomSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
	})
	f.SetColWidth(bomSheet, "B", "D", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func lineLabel(v bom.ComponentView) (string, string) {
	switch v := v.(type) {
	case bom.ProductComponent:
		return v.Code, v.Name
	case bom.ProcessConfigComponent:
		return v.Code, v.Name
	}
	panic(fmt.Sprintf("report: unhandled component view %T", v))
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}

	style, err := newHeaderStyle(f)
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style); err != nil {
		return err
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
}

func newHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
