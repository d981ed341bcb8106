package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

const machineColumns = `id, machine_code, machine_name, machine_type, status, maintenance_interval, last_maintenance_date, next_maintenance_date`

func scanMachine(row rowScanner) (*storage.Machine, error) {
	m := &storage.Machine{}
	var last, next storage.Date

	err := row.Scan(&m.ID, &m.MachineCode, &m.MachineName, &m.MachineType, &m.Status, &m.MaintenanceInterval, &last, &next)
	if err != nil {
		return nil, err
	}

	if !last.IsZero() {
		m.LastMaintenanceDate = &last
	}
	if !next.IsZero() {
		m.NextMaintenanceDate = &next
	}

	return m, nil
}

func (s *Storage) GetMachine(ctx context.Context, id int64) (*storage.Machine, error) {
	const op = "storage.mysql.GetMachine"

	m, err := scanMachine(s.db.QueryRowContext(ctx, `SELECT `+machineColumns+` FROM machines WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: станок id=%d не найден: %w", op, id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: выполнение запроса завершилось ошибкой: %w", op, err)
	}

	return m, nil
}

func (s *Storage) GetMachines(ctx context.Context) ([]*storage.Machine, error) {
	const op = "storage.mysql.GetMachines"

	rows, err := s.db.QueryContext(ctx, `SELECT `+machineColumns+` FROM machines ORDER BY machine_code`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var machines []*storage.Machine

	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		machines = append(machines, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return machines, nil
}

// SaveMaintenance сохраняет дату обслуживания, пересчитанную следующую дату и статус
func (s *Storage) SaveMaintenance(ctx context.Context, m storage.Machine) error {
	const op = "storage.mysql.SaveMaintenance"

	res, err := s.db.ExecContext(ctx,
		`UPDATE machines SET last_maintenance_date = ?, next_maintenance_date = ?, status = ? WHERE id = ?`,
		m.LastMaintenanceDate, m.NextMaintenanceDate, string(m.Status), m.ID)
	if err != nil {
		return fmt.Errorf("%s: ошибка сохранения обслуживания станка id=%d: %w", op, m.ID, err)
	}

	return expectRow(res, op, fmt.Sprintf("станок id=%d", m.ID))
}

func (s *Storage) UpdateMachineStatus(ctx context.Context, id int64, status storage.MachineStatus) error {
	const op = "storage.mysql.UpdateMachineStatus"

	res, err := s.db.ExecContext(ctx, `UPDATE machines SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("%s: ошибка смены статуса станка id=%d: %w", op, id, err)
	}

	return expectRow(res, op, fmt.Sprintf("станок id=%d", id))
}
