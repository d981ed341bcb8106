package bom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"erp-golang/internal/errs"
	"erp-golang/internal/metrics"
	"erp-golang/internal/storage"
)

type BOMStorage interface {
	GetProduct(ctx context.Context, id int64) (*storage.Product, error)
	GetBOM(ctx context.Context, id int64) (*storage.BOM, error)
	GetBOMsByProduct(ctx context.Context, productID int64) ([]*storage.BOM, error)
	CreateBOM(ctx context.Context, b storage.BOM) (int64, error)
	InsertComponent(ctx context.Context, c storage.BOMComponent) (int64, error)
	UpdateComponent(ctx context.Context, c storage.BOMComponent) error
	DeleteComponent(ctx context.Context, bomID, componentID int64) error
	UpdateBOMState(ctx context.Context, b storage.BOM) error
}

type Service struct {
	storage BOMStorage
	now     func() time.Time
}

func NewService(storage BOMStorage) *Service {
	return &Service{storage: storage, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	const op = "service.bom.Get"

	b, err := s.storage.GetBOM(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	detail, err := NewDetail(*b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		product *storage.Product
		lineage []int64
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.storage.GetProduct(gCtx, b.Product)
		if err != nil {
			return fmt.Errorf("product: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		chain, err := s.lineage(gCtx, *b)
		if err != nil {
			return fmt.Errorf("lineage: %w", err)
		}
		for _, item := range chain {
			lineage = append(lineage, item.ID)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	detail.Product = product
	detail.Lineage = lineage

	return detail, nil
}

func (s *Service) ListByProduct(ctx context.Context, productID int64) ([]*storage.BOM, error) {
	const op = "service.bom.ListByProduct"

	boms, err := s.storage.GetBOMsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, b := range boms {
		b.Components = SortComponents(b.Components)
	}

	return boms, nil
}

func (s *Service) Create(ctx context.Context, productID int64, version string, components []storage.BOMComponent) (*Detail, error) {
	const op = "service.bom.Create"

	var (
		product  *storage.Product
		existing []*storage.BOM
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.storage.GetProduct(gCtx, productID)
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Validation("product", fmt.Sprintf("product %d is not resolvable", productID))
		}
		return err
	})
	g.Go(func() error {
		var err error
		existing, err = s.storage.GetBOMsByProduct(gCtx, productID)
		return err
	})

	if err := g.Wait(); err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b, err := NewBOM(product, version, components)
	if err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := checkVersionFree(existing, b.Version, productID); err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.storage.CreateBOM(ctx, *b)
	if err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.storage.GetBOM(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	detail, err := NewDetail(*created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	detail.Product = product

	return detail, nil
}

func (s *Service) AddComponent(ctx context.Context, bomID int64, c storage.BOMComponent) (*Detail, error) {
	const op = "service.bom.AddComponent"

	b, err := s.storage.GetBOM(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	components, err := AddComponent(*b, c)
	if err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.ID = 0
	c.BOM = b.ID
	id, err := s.storage.InsertComponent(ctx, c)
	if err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range components {
		if components[i].ID == 0 && components[i].SequenceOrder == c.SequenceOrder {
			components[i].ID = id
		}
	}
	b.Components = components

	return NewDetail(*b)
}

func (s *Service) UpdateComponent(ctx context.Context, bomID, componentID int64, patch storage.ComponentPatch) (*Detail, error) {
	const op = "service.bom.UpdateComponent"

	b, err := s.storage.GetBOM(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	components, updated, err := UpdateComponent(*b, componentID, patch)
	if err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateComponent(ctx, updated); err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b.Components = components

	return NewDetail(*b)
}

func (s *Service) RemoveComponent(ctx context.Context, bomID, componentID int64) (*Detail, error) {
	const op = "service.bom.RemoveComponent"

	b, err := s.storage.GetBOM(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	components, err := RemoveComponent(*b, componentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DeleteComponent(ctx, bomID, componentID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b.Components = components

	return NewDetail(*b)
}

func (s *Service) ToggleActive(ctx context.Context, bomID int64) (*storage.BOM, error) {
	const op = "service.bom.ToggleActive"

	b, err := s.storage.GetBOM(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	toggled := ToggleActive(*b)
	if err := s.storage.UpdateBOMState(ctx, toggled); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	toggled.Components = SortComponents(toggled.Components)

	return &toggled, nil
}

func (s *Service) Approve(ctx context.Context, bomID int64) (*storage.BOM, error) {
	const op = "service.bom.Approve"

	b, err := s.storage.GetBOM(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	approved, err := Approve(*b, s.now().UTC())
	if err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateBOMState(ctx, approved); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	approved.Components = SortComponents(approved.Components)

	return &approved, nil
}

// CreateVersion заводит новую версию BOM от родительской
func (s *Service) CreateVersion(ctx context.Context, parentID int64, version string) (*Detail, error) {
	const op = "service.bom.CreateVersion"

	parent, err := s.storage.GetBOM(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	child, err := NewVersion(*parent, version)
	if err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.storage.GetBOMsByProduct(ctx, parent.Product)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := checkVersionFree(existing, child.Version, parent.Product); err != nil {
		metrics.RecordRejection("bom", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.storage.CreateBOM(ctx, *child)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.storage.GetBOM(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewDetail(*created)
}

// Lineage возвращает цепочку версий от корня до запрошенной
func (s *Service) Lineage(ctx context.Context, bomID int64) ([]storage.BOM, error) {
	const op = "service.bom.Lineage"

	b, err := s.storage.GetBOM(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	chain, err := s.lineage(ctx, *b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return chain, nil
}

func (s *Service) lineage(ctx context.Context, b storage.BOM) ([]storage.BOM, error) {
	chain := []storage.BOM{b}
	visited := map[int64]bool{b.ID: true}

	current := b
	for current.ParentBOM != nil {
		parentID := *current.ParentBOM
		if visited[parentID] {
			return nil, errs.Validation("parent_bom", fmt.Sprintf("version lineage of bom %d contains a cycle at bom %d", b.ID, parentID))
		}
		visited[parentID] = true

		parent, err := s.storage.GetBOM(ctx, parentID)
		if err != nil {
			return nil, err
		}

		chain = append(chain, *parent)
		current = *parent
	}

	// корень первым
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain, nil
}

func checkVersionFree(existing []*storage.BOM, version string, productID int64) error {
	for _, b := range existing {
		if b.Version == version {
			return errs.Validation("version", fmt.Sprintf("version %q already exists for product %d", version, productID))
		}
	}
	return nil
}
