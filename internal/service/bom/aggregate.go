package bom

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

// CheckSequences проверяет, что sequence_order положительные и не повторяются
func CheckSequences(scope string, components []storage.BOMComponent) error {
	seen := make(map[int]struct{}, len(components))

	for _, c := range components {
		if c.SequenceOrder <= 0 {
			return errs.Validation(fieldName(c, "sequence_order"), "must be a positive integer")
		}
		if _, ok := seen[c.SequenceOrder]; ok {
			return &errs.DuplicateSequenceError{Scope: scope, SequenceOrder: c.SequenceOrder}
		}
		seen[c.SequenceOrder] = struct{}{}
	}

	return nil
}

// SortComponents возвращает копию, отсортированную по sequence_order.
// Повторов нет по инварианту, вторичный ключ не нужен
func SortComponents(components []storage.BOMComponent) []storage.BOMComponent {
	sorted := make([]storage.BOMComponent, len(components))
	copy(sorted, components)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SequenceOrder < sorted[j].SequenceOrder
	})

	return sorted
}

func ValidateComponent(c storage.BOMComponent) error {
	if c.SequenceOrder <= 0 {
		return errs.Validation(fieldName(c, "sequence_order"), "must be a positive integer")
	}
	if !c.Quantity.IsPositive() {
		return errs.Validation(fieldName(c, "quantity"), "must be greater than zero")
	}

	_, err := Resolve(c)
	return err
}

func NewBOM(product *storage.Product, version string, components []storage.BOMComponent) (*storage.BOM, error) {
	if product == nil || product.ID == 0 {
		return nil, errs.Validation("product", "product is not resolvable")
	}

	version = strings.TrimSpace(version)
	if version == "" {
		return nil, errs.Validation("version", "must not be empty")
	}

	for _, c := range components {
		if err := ValidateComponent(c); err != nil {
			return nil, err
		}
	}

	scope := fmt.Sprintf("bom %s/%s", product.ProductCode, version)
	if err := CheckSequences(scope, components); err != nil {
		return nil, err
	}

	return &storage.BOM{
		Product:    product.ID,
		Version:    version,
		IsActive:   true,
		Components: SortComponents(components),
	}, nil
}

// AddComponent возвращает новый список; исходный BOM не меняется даже при ошибке.
// id новой строки назначает хранилище, присланный клиентом игнорируется
func AddComponent(b storage.BOM, c storage.BOMComponent) ([]storage.BOMComponent, error) {
	c.ID = 0

	if err := ValidateComponent(c); err != nil {
		return nil, err
	}

	c.BOM = b.ID

	union := make([]storage.BOMComponent, 0, len(b.Components)+1)
	union = append(union, b.Components...)
	union = append(union, c)

	if err := CheckSequences(scopeOf(b), union); err != nil {
		return nil, err
	}

	return SortComponents(union), nil
}

// RemoveComponent убирает одну строку. Оставшиеся sequence_order не пересчитываются
func RemoveComponent(b storage.BOM, componentID int64) ([]storage.BOMComponent, error) {
	idx := indexOf(b.Components, componentID)
	if idx < 0 {
		return nil, fmt.Errorf("component %d in %s: %w", componentID, scopeOf(b), errs.ErrNotFound)
	}

	rest := make([]storage.BOMComponent, 0, len(b.Components)-1)
	rest = append(rest, b.Components[:idx]...)
	rest = append(rest, b.Components[idx+1:]...)

	return SortComponents(rest), nil
}

// UpdateComponent применяет частичное обновление и возвращает новый список и изменённую строку
func UpdateComponent(b storage.BOM, componentID int64, patch storage.ComponentPatch) ([]storage.BOMComponent, storage.BOMComponent, error) {
	idx := indexOf(b.Components, componentID)
	if idx < 0 {
		return nil, storage.BOMComponent{}, fmt.Errorf("component %d in %s: %w", componentID, scopeOf(b), errs.ErrNotFound)
	}

	updated := b.Components[idx]
	if patch.Quantity != nil {
		updated.Quantity = *patch.Quantity
	}
	if patch.Notes != nil {
		notes := *patch.Notes
		updated.Notes = &notes
	}
	if patch.SequenceOrder != nil {
		updated.SequenceOrder = *patch.SequenceOrder
	}

	if err := ValidateComponent(updated); err != nil {
		return nil, storage.BOMComponent{}, err
	}

	next := make([]storage.BOMComponent, len(b.Components))
	copy(next, b.Components)
	next[idx] = updated

	if patch.SequenceOrder != nil {
		if err := CheckSequences(scopeOf(b), next); err != nil {
			return nil, storage.BOMComponent{}, err
		}
	}

	return SortComponents(next), updated, nil
}

// ToggleActive переключает is_active; компоненты и утверждение не трогаются
func ToggleActive(b storage.BOM) storage.BOM {
	b.IsActive = !b.IsActive
	return b
}

func Approve(b storage.BOM, now time.Time) (storage.BOM, error) {
	if b.IsApproved {
		return b, errs.Validation("is_approved", fmt.Sprintf("%s is already approved", scopeOf(b)))
	}
	if !b.IsActive {
		return b, errs.Validation("is_active", fmt.Sprintf("%s is inactive and cannot be approved", scopeOf(b)))
	}

	approvedAt := now
	b.IsApproved = true
	b.ApprovedAt = &approvedAt

	return b, nil
}

// NewVersion создаёт дочернюю версию: те же строки с теми же позициями, новые идентификаторы
func NewVersion(parent storage.BOM, version string) (*storage.BOM, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil, errs.Validation("version", "must not be empty")
	}
	if version == parent.Version {
		return nil, errs.Validation("version", fmt.Sprintf("version %q already exists for product %d", version, parent.Product))
	}

	components := make([]storage.BOMComponent, 0, len(parent.Components))
	for _, c := range parent.Components {
		c.ID = 0
		c.BOM = 0
		components = append(components, c)
	}

	parentID := parent.ID

	return &storage.BOM{
		Product:    parent.Product,
		Version:    version,
		IsActive:   true,
		ParentBOM:  &parentID,
		Components: SortComponents(components),
	}, nil
}

func indexOf(components []storage.BOMComponent, id int64) int {
	for i, c := range components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func scopeOf(b storage.BOM) string {
	if b.ID == 0 {
		return fmt.Sprintf("bom version %s", b.Version)
	}
	return fmt.Sprintf("bom %d", b.ID)
}
