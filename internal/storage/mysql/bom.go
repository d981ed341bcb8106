package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

const bomColumns = `id, product_id, version, is_active, is_approved, approved_at, parent_bom_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBOM(row rowScanner) (*storage.BOM, error) {
	b := &storage.BOM{}

	var (
		approvedAt sql.NullTime
		parentID   sql.NullInt64
	)

	err := row.Scan(&b.ID, &b.Product, &b.Version, &b.IsActive, &b.IsApproved, &approvedAt, &parentID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	b.ApprovedAt = nullTime(approvedAt)
	b.ParentBOM = nullInt64(parentID)

	return b, nil
}

func (s *Storage) GetBOM(ctx context.Context, id int64) (*storage.BOM, error) {
	const op = "storage.mysql.GetBOM"

	b, err := scanBOM(s.db.QueryRowContext(ctx, `SELECT `+bomColumns+` FROM boms WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: bom id=%d не найден: %w", op, id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: выполнение запроса завершилось ошибкой: %w", op, err)
	}

	components, err := s.getComponents(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	b.Components = components[id]

	return b, nil
}

func (s *Storage) GetBOMsByProduct(ctx context.Context, productID int64) ([]*storage.BOM, error) {
	const op = "storage.mysql.GetBOMsByProduct"

	rows, err := s.db.QueryContext(ctx, `SELECT `+bomColumns+` FROM boms WHERE product_id = ? ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		boms []*storage.BOM
		ids  []int64
	)

	for rows.Next() {
		b, err := scanBOM(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		boms = append(boms, b)
		ids = append(ids, b.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	if len(ids) == 0 {
		return boms, nil
	}

	components, err := s.getComponents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, b := range boms {
		b.Components = components[b.ID]
	}

	return boms, nil
}

// getComponents подтягивает строки вместе с данными продукта или конфигурации процесса
func (s *Storage) getComponents(ctx context.Context, bomIDs []int64) (map[int64][]storage.BOMComponent, error) {
	placeholders := make([]byte, 0, len(bomIDs)*2)
	args := make([]any, 0, len(bomIDs))
	for i, id := range bomIDs {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, id)
	}

	query := `
		SELECT c.id, c.bom_id, c.sequence_order, c.quantity, c.component_type, c.notes,
		       p.id, p.product_code, p.product_name, p.product_type,
		       pc.id, pc.sequence_order, mp.process_code, mp.process_name
		FROM bom_components c
		LEFT JOIN products p ON p.id = c.product_id
		LEFT JOIN process_configs pc ON pc.id = c.process_config_id
		LEFT JOIN manufacturing_processes mp ON mp.id = pc.process_id
		WHERE c.bom_id IN (` + string(placeholders) + `)
		ORDER BY c.bom_id, c.sequence_order
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения компонентов BOM: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]storage.BOMComponent, len(bomIDs))

	for rows.Next() {
		var (
			c        storage.BOMComponent
			quantity string
			notes    sql.NullString

			productID   sql.NullInt64
			productCode sql.NullString
			productName sql.NullString
			productType sql.NullString

			configID    sql.NullInt64
			configSeq   sql.NullInt64
			processCode sql.NullString
			processName sql.NullString
		)

		err := rows.Scan(&c.ID, &c.BOM, &c.SequenceOrder, &quantity, &c.ComponentType, &notes,
			&productID, &productCode, &productName, &productType,
			&configID, &configSeq, &processCode, &processName)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования компонента: %w", err)
		}

		c.Quantity, err = decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("компонент id=%d: некорректное количество %q: %w", c.ID, quantity, err)
		}
		c.Notes = nullString(notes)

		c.Details.Type = c.ComponentType
		if productID.Valid {
			c.Details.Product = &storage.ProductRef{
				ID:          productID.Int64,
				ProductCode: productCode.String,
				Name:        productName.String,
				ProductType: storage.ProductType(productType.String),
			}
		}
		if configID.Valid {
			c.Details.ProcessConfig = &storage.ProcessConfigRef{
				ID:            configID.Int64,
				ProcessCode:   processCode.String,
				ProcessName:   processName.String,
				SequenceOrder: int(configSeq.Int64),
			}
		}

		result[c.BOM] = append(result[c.BOM], c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return result, nil
}

func (s *Storage) CreateBOM(ctx context.Context, b storage.BOM) (int64, error) {
	const op = "storage.mysql.CreateBOM"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: не удалось начать транзакцию: %w", op, err)
	}

	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO boms (product_id, version, is_active, is_approved, approved_at, parent_bom_id) VALUES (?, ?, ?, ?, ?, ?)`,
		b.Product, b.Version, b.IsActive, b.IsApproved, b.ApprovedAt, b.ParentBOM)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: %w", op, errs.Validation("version", fmt.Sprintf("version %q already exists for product %d", b.Version, b.Product)))
		}
		return 0, fmt.Errorf("%s: ошибка сохранения BOM: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertComponentStmt)
	if err != nil {
		return 0, fmt.Errorf("%s: не удалось подготовить запрос для компонентов: %w", op, err)
	}
	defer stmt.Close()

	for _, c := range b.Components {
		c.BOM = id
		if _, err := stmt.ExecContext(ctx, componentArgs(c)...); err != nil {
			if isDuplicate(err) {
				return 0, fmt.Errorf("%s: %w", op, &errs.DuplicateSequenceError{Scope: fmt.Sprintf("bom %d", id), SequenceOrder: c.SequenceOrder})
			}
			if isMissingReference(err) {
				return 0, fmt.Errorf("%s: %w", op, errs.Validation("details", fmt.Sprintf("component seq=%d references a missing entity", c.SequenceOrder)))
			}
			return 0, fmt.Errorf("%s: ошибка сохранения компонента seq=%d: %w", op, c.SequenceOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: ошибка коммита транзакции: %w", op, err)
	}

	return id, nil
}

const insertComponentStmt = `
	INSERT INTO bom_components (bom_id, sequence_order, quantity, component_type, product_id, process_config_id, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

func componentArgs(c storage.BOMComponent) []any {
	var productID, configID *int64
	if c.Details.Product != nil {
		productID = &c.Details.Product.ID
	}
	if c.Details.ProcessConfig != nil {
		configID = &c.Details.ProcessConfig.ID
	}

	return []any{c.BOM, c.SequenceOrder, c.Quantity.String(), string(c.ComponentType), productID, configID, c.Notes}
}

func (s *Storage) InsertComponent(ctx context.Context, c storage.BOMComponent) (int64, error) {
	const op = "storage.mysql.InsertComponent"

	res, err := s.db.ExecContext(ctx, insertComponentStmt, componentArgs(c)...)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: %w", op, &errs.DuplicateSequenceError{Scope: fmt.Sprintf("bom %d", c.BOM), SequenceOrder: c.SequenceOrder})
		}
		if isMissingReference(err) {
			return 0, fmt.Errorf("%s: %w", op, errs.Validation("details", "component references a missing entity"))
		}
		return 0, fmt.Errorf("%s: ошибка сохранения компонента: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateComponent(ctx context.Context, c storage.BOMComponent) error {
	const op = "storage.mysql.UpdateComponent"

	res, err := s.db.ExecContext(ctx,
		`UPDATE bom_components SET sequence_order = ?, quantity = ?, notes = ? WHERE id = ? AND bom_id = ?`,
		c.SequenceOrder, c.Quantity.String(), c.Notes, c.ID, c.BOM)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %w", op, &errs.DuplicateSequenceError{Scope: fmt.Sprintf("bom %d", c.BOM), SequenceOrder: c.SequenceOrder})
		}
		return fmt.Errorf("%s: ошибка обновления компонента id=%d: %w", op, c.ID, err)
	}

	return expectRow(res, op, fmt.Sprintf("компонент id=%d", c.ID))
}

func (s *Storage) DeleteComponent(ctx context.Context, bomID, componentID int64) error {
	const op = "storage.mysql.DeleteComponent"

	res, err := s.db.ExecContext(ctx, `DELETE FROM bom_components WHERE id = ? AND bom_id = ?`, componentID, bomID)
	if err != nil {
		return fmt.Errorf("%s: ошибка удаления компонента id=%d: %w", op, componentID, err)
	}

	return expectRow(res, op, fmt.Sprintf("компонент id=%d", componentID))
}

func (s *Storage) UpdateBOMState(ctx context.Context, b storage.BOM) error {
	const op = "storage.mysql.UpdateBOMState"

	_, err := s.db.ExecContext(ctx,
		`UPDATE boms SET is_active = ?, is_approved = ?, approved_at = ? WHERE id = ?`,
		b.IsActive, b.IsApproved, b.ApprovedAt, b.ID)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления BOM id=%d: %w", op, b.ID, err)
	}

	return nil
}

// expectRow опирается на clientFoundRows в DSN: UPDATE без изменений всё равно возвращает 1
func expectRow(res sql.Result, op, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %s не найден: %w", op, what, errs.ErrNotFound)
	}
	return nil
}
