package storage

type MachineStatus string

const (
	MachineAvailable   MachineStatus = "AVAILABLE"
	MachineInUse       MachineStatus = "IN_USE"
	MachineMaintenance MachineStatus = "MAINTENANCE"
	MachineRetired     MachineStatus = "RETIRED"
)

func (s MachineStatus) Valid() bool {
	switch s {
	case MachineAvailable, MachineInUse, MachineMaintenance, MachineRetired:
		return true
	}
	return false
}

type Machine struct {
	ID                  int64         `json:"id"`
	MachineCode         string        `json:"machine_code"`
	MachineName         string        `json:"machine_name"`
	MachineType         string        `json:"machine_type"`
	Status              MachineStatus `json:"status"`
	MaintenanceInterval int           `json:"maintenance_interval"`
	LastMaintenanceDate *Date         `json:"last_maintenance_date"`
	NextMaintenanceDate *Date         `json:"next_maintenance_date"`
}
