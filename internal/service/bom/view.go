package bom

import (
	"erp-golang/internal/storage"
)

type Line struct {
	storage.BOMComponent
	Resolved ComponentView `json:"resolved"`
	Unit     string        `json:"unit"`
}

type Detail struct {
	BOM     storage.BOM      `json:"bom"`
	Product *storage.Product `json:"product,omitempty"`
	Lineage []int64          `json:"lineage,omitempty"`
	Lines   []Line           `json:"lines"`
}

// Lines сортирует и разрешает строки. Первая нераспознанная строка прерывает сборку
func Lines(components []storage.BOMComponent) ([]Line, error) {
	sorted := SortComponents(components)
	lines := make([]Line, 0, len(sorted))

	for _, c := range sorted {
		view, err := Resolve(c)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{BOMComponent: c, Resolved: view, Unit: QuantityUnit(view)})
	}

	return lines, nil
}

func NewDetail(b storage.BOM) (*Detail, error) {
	lines, err := Lines(b.Components)
	if err != nil {
		return nil, err
	}

	b.Components = SortComponents(b.Components)

	return &Detail{BOM: b, Lines: lines}, nil
}
