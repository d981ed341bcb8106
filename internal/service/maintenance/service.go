package maintenance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"erp-golang/internal/errs"
	"erp-golang/internal/metrics"
	"erp-golang/internal/storage"
)

type MachineStorage interface {
	GetMachine(ctx context.Context, id int64) (*storage.Machine, error)
	GetMachines(ctx context.Context) ([]*storage.Machine, error)
	SaveMaintenance(ctx context.Context, m storage.Machine) error
	UpdateMachineStatus(ctx context.Context, id int64, status storage.MachineStatus) error
}

type Service struct {
	storage MachineStorage
	now     func() time.Time
}

func NewService(storage MachineStorage) *Service {
	return &Service{storage: storage, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id int64) (*Schedule, error) {
	const op = "service.maintenance.Get"

	m, err := s.storage.GetMachine(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	schedule := NewSchedule(*m, s.now())

	return &schedule, nil
}

// List возвращает станки с расчётом обслуживания; dueOnly оставляет только требующие обслуживания.
// Сортировка: сначала ближайший срок, станки без истории в конце
func (s *Service) List(ctx context.Context, dueOnly bool) ([]Schedule, error) {
	const op = "service.maintenance.List"

	machines, err := s.storage.GetMachines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	schedules := make([]Schedule, 0, len(machines))

	for _, m := range machines {
		schedule := NewSchedule(*m, now)
		if dueOnly && !schedule.NeedsMaintenance {
			continue
		}
		schedules = append(schedules, schedule)
	}

	sort.SliceStable(schedules, func(i, j int) bool {
		a, b := schedules[i].DaysUntilDue, schedules[j].DaysUntilDue
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	return schedules, nil
}

// RecordMaintenance фиксирует проведённое обслуживание и сохраняет рассчитанную следующую дату
func (s *Service) RecordMaintenance(ctx context.Context, id int64, performed storage.Date) (*Schedule, error) {
	const op = "service.maintenance.RecordMaintenance"

	if performed.IsZero() {
		return nil, fmt.Errorf("%s: %w", op, errs.Validation("last_maintenance_date", "is required"))
	}

	now := s.now()
	if performed.After(today(now).Time) {
		err := errs.Validation("last_maintenance_date", "must not be in the future")
		metrics.RecordRejection("maintenance", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m, err := s.storage.GetMachine(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := ApplyMaintenance(*m, performed)
	if err != nil {
		metrics.RecordRejection("maintenance", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SaveMaintenance(ctx, updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	schedule := NewSchedule(updated, now)

	return &schedule, nil
}

func (s *Service) ChangeStatus(ctx context.Context, id int64, to storage.MachineStatus) (*Schedule, error) {
	const op = "service.maintenance.ChangeStatus"

	m, err := s.storage.GetMachine(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := StatusTransition(m.Status, to); err != nil {
		metrics.RecordRejection("maintenance", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if m.Status != to {
		if err := s.storage.UpdateMachineStatus(ctx, id, to); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		m.Status = to
	}

	schedule := NewSchedule(*m, s.now())

	return &schedule, nil
}

// ApplyMaintenance — новое состояние станка после обслуживания
func ApplyMaintenance(m storage.Machine, performed storage.Date) (storage.Machine, error) {
	if m.Status == storage.MachineRetired {
		return m, &errs.InvalidStatusTransitionError{Entity: "machine " + m.MachineCode, From: string(m.Status), To: string(storage.MachineAvailable)}
	}
	if m.MaintenanceInterval <= 0 {
		return m, errs.Validation("maintenance_interval", "must be a positive number of days")
	}

	last := performed
	m.LastMaintenanceDate = &last
	m.NextMaintenanceDate = NextMaintenanceDate(m)

	if m.Status == storage.MachineMaintenance {
		m.Status = storage.MachineAvailable
	}

	return m, nil
}

// StatusTransition: RETIRED — конечный статус
func StatusTransition(from, to storage.MachineStatus) error {
	if !to.Valid() {
		return errs.Validation("status", fmt.Sprintf("unknown machine status %q", to))
	}
	if from == storage.MachineRetired && to != storage.MachineRetired {
		return &errs.InvalidStatusTransitionError{Entity: "machine", From: string(from), To: string(to)}
	}
	return nil
}
