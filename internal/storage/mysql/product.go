package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

func (s *Storage) GetProduct(ctx context.Context, id int64) (*storage.Product, error) {
	const op = "storage.mysql.GetProduct"

	query := `
		SELECT id, product_code, product_name, product_type, current_stock, created_at, updated_at
		FROM products
		WHERE id = ?
	`

	p := &storage.Product{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.ProductCode, &p.ProductName, &p.ProductType, &p.CurrentStock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: продукт id=%d не найден: %w", op, id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: выполнение запроса завершилось ошибкой: %w", op, err)
	}

	return p, nil
}

func (s *Storage) GetProducts(ctx context.Context, productType string) ([]*storage.Product, error) {
	const op = "storage.mysql.GetProducts"

	stmt := `SELECT id, product_code, product_name, product_type, current_stock, created_at, updated_at FROM products`
	var args []any
	if productType != "" {
		stmt += ` WHERE product_type = ?`
		args = append(args, productType)
	}
	stmt += ` ORDER BY product_code`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []*storage.Product

	for rows.Next() {
		p := &storage.Product{}

		err := rows.Scan(&p.ID, &p.ProductCode, &p.ProductName, &p.ProductType, &p.CurrentStock, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}

		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return products, nil
}
