package storage

import "time"

type ProcessStatus string

const (
	ProcessDraft    ProcessStatus = "DRAFT"
	ProcessActive   ProcessStatus = "ACTIVE"
	ProcessArchived ProcessStatus = "ARCHIVED"
)

type ManufacturingProcess struct {
	ID          int64   `json:"id"`
	ProcessCode string  `json:"process_code"`
	ProcessName string  `json:"process_name"`
	Description *string `json:"description"`
}

// Equipment описывает инструмент, оснастку или мерительный калибр
type Equipment struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ProcessConfig — шаг маршрута изготовления изделия. Времена в минутах
type ProcessConfig struct {
	ID               int64         `json:"id"`
	Product          int64         `json:"product"`
	Process          int64         `json:"process"`
	ProcessCode      string        `json:"process_code"`
	ProcessName      string        `json:"process_name"`
	SequenceOrder    int           `json:"sequence_order"`
	AxisCount        *int          `json:"axis_count"`
	MachineTime      *float64      `json:"machine_time"`
	SetupTime        *float64      `json:"setup_time"`
	NetTime          *float64      `json:"net_time"`
	CycleTime        *float64      `json:"cycle_time"`
	NumberOfBindings *int          `json:"number_of_bindings"`
	Tool             *Equipment    `json:"tool"`
	Fixture          *Equipment    `json:"fixture"`
	ControlGauge     *Equipment    `json:"control_gauge"`
	Status           ProcessStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type ProcessConfigPatch struct {
	SequenceOrder    *int       `json:"sequence_order"`
	AxisCount        *int       `json:"axis_count"`
	MachineTime      *float64   `json:"machine_time"`
	SetupTime        *float64   `json:"setup_time"`
	NetTime          *float64   `json:"net_time"`
	CycleTime        *float64   `json:"cycle_time"`
	NumberOfBindings *int       `json:"number_of_bindings"`
	Tool             *Equipment `json:"tool"`
	Fixture          *Equipment `json:"fixture"`
	ControlGauge     *Equipment `json:"control_gauge"`
}
