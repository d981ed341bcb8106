package workflow

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"erp-golang/internal/errs"
	"erp-golang/internal/metrics"
	"erp-golang/internal/storage"
)

type WorkflowStorage interface {
	GetProduct(ctx context.Context, id int64) (*storage.Product, error)
	GetProcess(ctx context.Context, id int64) (*storage.ManufacturingProcess, error)
	GetProcesses(ctx context.Context) ([]*storage.ManufacturingProcess, error)
	GetProcessConfigs(ctx context.Context, productID int64) ([]storage.ProcessConfig, error)
	GetProcessConfig(ctx context.Context, id int64) (*storage.ProcessConfig, error)
	CreateProcessConfig(ctx context.Context, c storage.ProcessConfig) (int64, error)
	UpdateProcessConfig(ctx context.Context, c storage.ProcessConfig) error
	DeleteProcessConfig(ctx context.Context, id int64) error
	UpdateProcessConfigStatus(ctx context.Context, id int64, status storage.ProcessStatus) error
}

type Step struct {
	storage.ProcessConfig
	EffectiveCycleTime *float64 `json:"effective_cycle_time"`
}

type Pipeline struct {
	Product *storage.Product `json:"product"`
	Steps   []Step           `json:"steps"`
	Stats   Stats            `json:"stats"`
}

type Service struct {
	storage WorkflowStorage
}

func NewService(storage WorkflowStorage) *Service {
	return &Service{storage: storage}
}

func NewPipeline(product *storage.Product, configs []storage.ProcessConfig) (*Pipeline, error) {
	sorted, err := Sequence(configs)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(sorted))
	for _, c := range sorted {
		step := Step{ProcessConfig: c}
		if ct, ok := CycleTime(c); ok {
			step.EffectiveCycleTime = &ct
		}
		steps = append(steps, step)
	}

	return &Pipeline{Product: product, Steps: steps, Stats: Aggregate(sorted)}, nil
}

func (s *Service) Processes(ctx context.Context) ([]*storage.ManufacturingProcess, error) {
	const op = "service.workflow.Processes"

	processes, err := s.storage.GetProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return processes, nil
}

// Pipeline — упорядоченный маршрут изделия со статистикой
func (s *Service) Pipeline(ctx context.Context, productID int64) (*Pipeline, error) {
	const op = "service.workflow.Pipeline"

	var (
		product *storage.Product
		configs []storage.ProcessConfig
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.storage.GetProduct(gCtx, productID)
		return err
	})
	g.Go(func() error {
		var err error
		configs, err = s.storage.GetProcessConfigs(gCtx, productID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pipeline, err := NewPipeline(product, configs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pipeline, nil
}

func (s *Service) Create(ctx context.Context, c storage.ProcessConfig) (*storage.ProcessConfig, error) {
	const op = "service.workflow.Create"

	// новый шаг всегда начинает жизненный цикл с DRAFT, дальше только через ChangeStatus
	c.Status = storage.ProcessDraft

	if err := Validate(c); err != nil {
		metrics.RecordRejection("workflow", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		process  *storage.ManufacturingProcess
		existing []storage.ProcessConfig
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		process, err = s.storage.GetProcess(gCtx, c.Process)
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Validation("process", fmt.Sprintf("manufacturing process %d is not resolvable", c.Process))
		}
		return err
	})
	g.Go(func() error {
		if _, err := s.storage.GetProduct(gCtx, c.Product); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.Validation("product", fmt.Sprintf("product %d is not resolvable", c.Product))
			}
			return err
		}
		var err error
		existing, err = s.storage.GetProcessConfigs(gCtx, c.Product)
		return err
	})

	if err := g.Wait(); err != nil {
		metrics.RecordRejection("workflow", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := Sequence(append(existing, c)); err != nil {
		metrics.RecordRejection("workflow", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.ProcessCode = process.ProcessCode
	c.ProcessName = process.ProcessName

	id, err := s.storage.CreateProcessConfig(ctx, c)
	if err != nil {
		metrics.RecordRejection("workflow", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.ID = id

	return &c, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch storage.ProcessConfigPatch) (*storage.ProcessConfig, error) {
	const op = "service.workflow.Update"

	current, err := s.storage.GetProcessConfig(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated := ApplyPatch(*current, patch)

	if err := Validate(updated); err != nil {
		metrics.RecordRejection("workflow", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if updated.SequenceOrder != current.SequenceOrder {
		siblings, err := s.storage.GetProcessConfigs(ctx, current.Product)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		for i := range siblings {
			if siblings[i].ID == id {
				siblings[i] = updated
			}
		}

		if _, err := Sequence(siblings); err != nil {
			metrics.RecordRejection("workflow", err)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.storage.UpdateProcessConfig(ctx, updated); err != nil {
		metrics.RecordRejection("workflow", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "service.workflow.Delete"

	if err := s.storage.DeleteProcessConfig(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) ChangeStatus(ctx context.Context, id int64, to storage.ProcessStatus) (*storage.ProcessConfig, error) {
	const op = "service.workflow.ChangeStatus"

	current, err := s.storage.GetProcessConfig(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := Transition(current.Status, to); err != nil {
		metrics.RecordRejection("workflow", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if current.Status == to {
		return current, nil
	}

	if err := s.storage.UpdateProcessConfigStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current.Status = to

	return current, nil
}
