package maintenance

import (
	"time"

	"erp-golang/internal/storage"
)

// NextMaintenanceDate = last_maintenance_date + maintenance_interval дней. Без истории обслуживания — nil
func NextMaintenanceDate(m storage.Machine) *storage.Date {
	if m.LastMaintenanceDate == nil || m.LastMaintenanceDate.IsZero() {
		return nil
	}

	next := m.LastMaintenanceDate.AddDays(m.MaintenanceInterval)
	return &next
}

// NeedsMaintenance: станок без истории обслуживания никогда не считается просроченным
func NeedsMaintenance(m storage.Machine, now time.Time) bool {
	next := NextMaintenanceDate(m)
	if next == nil {
		return false
	}

	return !today(now).Before(next.Time)
}

// DaysUntilDue — разница в календарных днях, отрицательная при просрочке
func DaysUntilDue(m storage.Machine, now time.Time) (int, bool) {
	next := NextMaintenanceDate(m)
	if next == nil {
		return 0, false
	}

	// через номера дней: time.Duration переполняется на интервалах больше ~292 лет
	days := int((next.Unix() - today(now).Unix()) / secondsPerDay)

	return days, true
}

const secondsPerDay = 24 * 60 * 60

// today — календарный день в UTC, независимо от зоны сервера
func today(now time.Time) storage.Date {
	return storage.DateOf(now.UTC())
}

type Schedule struct {
	storage.Machine
	NeedsMaintenance bool `json:"needs_maintenance"`
	DaysUntilDue     *int `json:"days_until_due"`
}

func NewSchedule(m storage.Machine, now time.Time) Schedule {
	m.NextMaintenanceDate = NextMaintenanceDate(m)

	s := Schedule{Machine: m, NeedsMaintenance: NeedsMaintenance(m, now)}
	if days, ok := DaysUntilDue(m, now); ok {
		s.DaysUntilDue = &days
	}

	return s
}
