package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

func (s *Storage) GetProcess(ctx context.Context, id int64) (*storage.ManufacturingProcess, error) {
	const op = "storage.mysql.GetProcess"

	p := &storage.ManufacturingProcess{}
	var description sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, process_code, process_name, description FROM manufacturing_processes WHERE id = ?`, id,
	).Scan(&p.ID, &p.ProcessCode, &p.ProcessName, &description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: процесс id=%d не найден: %w", op, id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: выполнение запроса завершилось ошибкой: %w", op, err)
	}
	p.Description = nullString(description)

	return p, nil
}

func (s *Storage) GetProcesses(ctx context.Context) ([]*storage.ManufacturingProcess, error) {
	const op = "storage.mysql.GetProcesses"

	rows, err := s.db.QueryContext(ctx, `SELECT id, process_code, process_name, description FROM manufacturing_processes ORDER BY process_code`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var processes []*storage.ManufacturingProcess

	for rows.Next() {
		p := &storage.ManufacturingProcess{}
		var description sql.NullString

		if err := rows.Scan(&p.ID, &p.ProcessCode, &p.ProcessName, &description); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		p.Description = nullString(description)

		processes = append(processes, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return processes, nil
}

const processConfigSelect = `
	SELECT pc.id, pc.product_id, pc.process_id, mp.process_code, mp.process_name, pc.sequence_order,
	       pc.axis_count, pc.machine_time, pc.setup_time, pc.net_time, pc.cycle_time, pc.number_of_bindings,
	       pc.tool, pc.fixture, pc.control_gauge, pc.status, pc.created_at, pc.updated_at
	FROM process_configs pc
	JOIN manufacturing_processes mp ON mp.id = pc.process_id
`

func scanProcessConfig(row rowScanner) (storage.ProcessConfig, error) {
	var (
		c                          storage.ProcessConfig
		axisCount, bindings        sql.NullInt64
		machine, setup, net, cycle sql.NullFloat64
		tool, fixture, gauge       []byte
	)

	err := row.Scan(&c.ID, &c.Product, &c.Process, &c.ProcessCode, &c.ProcessName, &c.SequenceOrder,
		&axisCount, &machine, &setup, &net, &cycle, &bindings,
		&tool, &fixture, &gauge, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}

	c.AxisCount = nullInt(axisCount)
	c.NumberOfBindings = nullInt(bindings)
	c.MachineTime = nullFloat(machine)
	c.SetupTime = nullFloat(setup)
	c.NetTime = nullFloat(net)
	c.CycleTime = nullFloat(cycle)

	if c.Tool, err = decodeEquipment(tool); err != nil {
		return c, fmt.Errorf("tool: %w", err)
	}
	if c.Fixture, err = decodeEquipment(fixture); err != nil {
		return c, fmt.Errorf("fixture: %w", err)
	}
	if c.ControlGauge, err = decodeEquipment(gauge); err != nil {
		return c, fmt.Errorf("control_gauge: %w", err)
	}

	return c, nil
}

func decodeEquipment(raw []byte) (*storage.Equipment, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var e storage.Equipment
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func encodeEquipment(e *storage.Equipment) (any, error) {
	if e == nil {
		return nil, nil
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *Storage) GetProcessConfigs(ctx context.Context, productID int64) ([]storage.ProcessConfig, error) {
	const op = "storage.mysql.GetProcessConfigs"

	rows, err := s.db.QueryContext(ctx, processConfigSelect+` WHERE pc.product_id = ? ORDER BY pc.sequence_order`, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var configs []storage.ProcessConfig

	for rows.Next() {
		c, err := scanProcessConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		configs = append(configs, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return configs, nil
}

func (s *Storage) GetProcessConfig(ctx context.Context, id int64) (*storage.ProcessConfig, error) {
	const op = "storage.mysql.GetProcessConfig"

	c, err := scanProcessConfig(s.db.QueryRowContext(ctx, processConfigSelect+` WHERE pc.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: конфигурация процесса id=%d не найдена: %w", op, id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: выполнение запроса завершилось ошибкой: %w", op, err)
	}

	return &c, nil
}

func processConfigArgs(c storage.ProcessConfig) ([]any, error) {
	tool, err := encodeEquipment(c.Tool)
	if err != nil {
		return nil, fmt.Errorf("tool: %w", err)
	}
	fixture, err := encodeEquipment(c.Fixture)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	gauge, err := encodeEquipment(c.ControlGauge)
	if err != nil {
		return nil, fmt.Errorf("control_gauge: %w", err)
	}

	return []any{
		c.SequenceOrder, c.AxisCount, c.MachineTime, c.SetupTime, c.NetTime, c.CycleTime, c.NumberOfBindings,
		tool, fixture, gauge,
	}, nil
}

func (s *Storage) CreateProcessConfig(ctx context.Context, c storage.ProcessConfig) (int64, error) {
	const op = "storage.mysql.CreateProcessConfig"

	args, err := processConfigArgs(c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	args = append([]any{c.Product, c.Process}, args...)
	args = append(args, string(c.Status))

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO process_configs (product_id, process_id, sequence_order, axis_count, machine_time, setup_time,
		                             net_time, cycle_time, number_of_bindings, tool, fixture, control_gauge, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: %w", op, &errs.DuplicateSequenceError{Scope: fmt.Sprintf("workflow of product %d", c.Product), SequenceOrder: c.SequenceOrder})
		}
		if isMissingReference(err) {
			return 0, fmt.Errorf("%s: %w", op, errs.Validation("process", fmt.Sprintf("product %d or process %d does not exist", c.Product, c.Process)))
		}
		return 0, fmt.Errorf("%s: ошибка сохранения конфигурации процесса: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateProcessConfig(ctx context.Context, c storage.ProcessConfig) error {
	const op = "storage.mysql.UpdateProcessConfig"

	args, err := processConfigArgs(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	args = append(args, c.ID)

	res, err := s.db.ExecContext(ctx, `
		UPDATE process_configs
		SET sequence_order = ?, axis_count = ?, machine_time = ?, setup_time = ?, net_time = ?, cycle_time = ?,
		    number_of_bindings = ?, tool = ?, fixture = ?, control_gauge = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %w", op, &errs.DuplicateSequenceError{Scope: fmt.Sprintf("workflow of product %d", c.Product), SequenceOrder: c.SequenceOrder})
		}
		return fmt.Errorf("%s: ошибка обновления конфигурации id=%d: %w", op, c.ID, err)
	}

	return expectRow(res, op, fmt.Sprintf("конфигурация процесса id=%d", c.ID))
}

func (s *Storage) DeleteProcessConfig(ctx context.Context, id int64) error {
	const op = "storage.mysql.DeleteProcessConfig"

	res, err := s.db.ExecContext(ctx, `DELETE FROM process_configs WHERE id = ?`, id)
	if err != nil {
		if isReferenced(err) {
			return fmt.Errorf("%s: %w", op, errs.Validation("id", fmt.Sprintf("process config %d is used by a BOM", id)))
		}
		return fmt.Errorf("%s: ошибка удаления конфигурации id=%d: %w", op, id, err)
	}

	return expectRow(res, op, fmt.Sprintf("конфигурация процесса id=%d", id))
}

func (s *Storage) UpdateProcessConfigStatus(ctx context.Context, id int64, status storage.ProcessStatus) error {
	const op = "storage.mysql.UpdateProcessConfigStatus"

	res, err := s.db.ExecContext(ctx, `UPDATE process_configs SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("%s: ошибка смены статуса id=%d: %w", op, id, err)
	}

	return expectRow(res, op, fmt.Sprintf("конфигурация процесса id=%d", id))
}
