package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type ComponentType string

const (
	ComponentProduct       ComponentType = "PRODUCT"
	ComponentProcessConfig ComponentType = "PROCESS_CONFIG"
)

type BOM struct {
	ID         int64          `json:"id"`
	Product    int64          `json:"product"`
	Version    string         `json:"version"`
	IsActive   bool           `json:"is_active"`
	IsApproved bool           `json:"is_approved"`
	ApprovedAt *time.Time     `json:"approved_at"`
	ParentBOM  *int64         `json:"parent_bom"`
	Components []BOMComponent `json:"components"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type BOMComponent struct {
	ID            int64            `json:"id"`
	BOM           int64            `json:"bom"`
	SequenceOrder int              `json:"sequence_order"`
	Quantity      decimal.Decimal  `json:"quantity"`
	ComponentType ComponentType    `json:"component_type"`
	Details       ComponentDetails `json:"details"`
	Notes         *string          `json:"notes"`
}

// ComponentDetails — полезная нагрузка компонента, дискриминатор в Type
type ComponentDetails struct {
	Type          ComponentType     `json:"type"`
	Product       *ProductRef       `json:"product,omitempty"`
	ProcessConfig *ProcessConfigRef `json:"process_config,omitempty"`
}

type ProductRef struct {
	ID          int64       `json:"id"`
	ProductCode string      `json:"product_code"`
	Name        string      `json:"name"`
	ProductType ProductType `json:"product_type"`
}

type ProcessConfigRef struct {
	ID            int64  `json:"id"`
	ProcessCode   string `json:"process_code"`
	ProcessName   string `json:"process_name"`
	SequenceOrder int    `json:"sequence_order"`
}

// ComponentPatch — частичное обновление компонента, nil поля не трогаем
type ComponentPatch struct {
	SequenceOrder *int             `json:"sequence_order"`
	Quantity      *decimal.Decimal `json:"quantity"`
	Notes         *string          `json:"notes"`
}
