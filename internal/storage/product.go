package storage

import "time"

type ProductType string

const (
	ProductSingle       ProductType = "SINGLE"
	ProductSemi         ProductType = "SEMI"
	ProductMontaged     ProductType = "MONTAGED"
	ProductStandardPart ProductType = "STANDARD_PART"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductSingle, ProductSemi, ProductMontaged, ProductStandardPart:
		return true
	}
	return false
}

type Product struct {
	ID           int64       `json:"id"`
	ProductCode  string      `json:"product_code"`
	ProductName  string      `json:"product_name"`
	ProductType  ProductType `json:"product_type"`
	CurrentStock int         `json:"current_stock"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
