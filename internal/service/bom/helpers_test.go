package bom

import (
	"github.com/shopspring/decimal"

	"erp-golang/internal/storage"
)

func productComponent(id int64, seq int, qty string) storage.BOMComponent {
	return storage.BOMComponent{
		ID:            id,
		BOM:           1,
		SequenceOrder: seq,
		Quantity:      decimal.RequireFromString(qty),
		ComponentType: storage.ComponentProduct,
		Details: storage.ComponentDetails{
			Type: storage.ComponentProduct,
			Product: &storage.ProductRef{
				ID:          11,
				ProductCode: "P-001",
				Name:        "Корпус",
				ProductType: storage.ProductSemi,
			},
		},
	}
}

func processComponent(id int64, seq int, qty string) storage.BOMComponent {
	return storage.BOMComponent{
		ID:            id,
		BOM:           1,
		SequenceOrder: seq,
		Quantity:      decimal.RequireFromString(qty),
		ComponentType: storage.ComponentProcessConfig,
		Details: storage.ComponentDetails{
			Type: storage.ComponentProcessConfig,
			ProcessConfig: &storage.ProcessConfigRef{
				ID:            21,
				ProcessCode:   "OP-10",
				ProcessName:   "Фрезерование",
				SequenceOrder: 10,
			},
		},
	}
}

func testProduct() *storage.Product {
	return &storage.Product{
		ID:          11,
		ProductCode: "P-001",
		ProductName: "Корпус",
		ProductType: storage.ProductMontaged,
	}
}

func sequences(components []storage.BOMComponent) []int {
	out := make([]int, 0, len(components))
	for _, c := range components {
		out = append(out, c.SequenceOrder)
	}
	return out
}
