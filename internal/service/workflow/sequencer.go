package workflow

import (
	"fmt"
	"sort"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

// Stats — сводка по маршруту. nil означает, что ни у одного шага поле не заполнено
type Stats struct {
	StepCount        int      `json:"step_count"`
	TotalMachineTime *float64 `json:"total_machine_time"`
	TotalSetupTime   *float64 `json:"total_setup_time"`
	TotalNetTime     *float64 `json:"total_net_time"`
	TotalCycleTime   *float64 `json:"total_cycle_time"`
	AverageCycleTime *float64 `json:"average_cycle_time"`
	// шаги, у которых время цикла не определено
	UnknownCycleSteps int `json:"unknown_cycle_steps"`
}

// Sequence возвращает шаги по возрастанию sequence_order. Повтор — ошибка, а не пересортировка
func Sequence(configs []storage.ProcessConfig) ([]storage.ProcessConfig, error) {
	seen := make(map[int]struct{}, len(configs))

	for _, c := range configs {
		if c.SequenceOrder <= 0 {
			return nil, errs.Validation(fmt.Sprintf("process_configs[%d].sequence_order", c.ID), "must be a positive integer")
		}
		if _, ok := seen[c.SequenceOrder]; ok {
			return nil, &errs.DuplicateSequenceError{Scope: scopeOf(c.Product), SequenceOrder: c.SequenceOrder}
		}
		seen[c.SequenceOrder] = struct{}{}
	}

	sorted := make([]storage.ProcessConfig, len(configs))
	copy(sorted, configs)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SequenceOrder < sorted[j].SequenceOrder
	})

	return sorted, nil
}

// CycleTime: явное значение, иначе machine_time + setup_time. Если чего-то нет — ok=false, не ноль
func CycleTime(c storage.ProcessConfig) (float64, bool) {
	if c.CycleTime != nil {
		return *c.CycleTime, true
	}
	if c.MachineTime != nil && c.SetupTime != nil {
		return *c.MachineTime + *c.SetupTime, true
	}
	return 0, false
}

func Aggregate(configs []storage.ProcessConfig) Stats {
	stats := Stats{StepCount: len(configs)}

	var known int
	for _, c := range configs {
		stats.TotalMachineTime = addPresent(stats.TotalMachineTime, c.MachineTime)
		stats.TotalSetupTime = addPresent(stats.TotalSetupTime, c.SetupTime)
		stats.TotalNetTime = addPresent(stats.TotalNetTime, c.NetTime)

		if ct, ok := CycleTime(c); ok {
			stats.TotalCycleTime = addPresent(stats.TotalCycleTime, &ct)
			known++
		} else {
			stats.UnknownCycleSteps++
		}
	}

	if known > 0 {
		avg := *stats.TotalCycleTime / float64(known)
		stats.AverageCycleTime = &avg
	}

	return stats
}

func addPresent(total, value *float64) *float64 {
	if value == nil {
		return total
	}
	sum := *value
	if total != nil {
		sum += *total
	}
	return &sum
}

func scopeOf(productID int64) string {
	return fmt.Sprintf("workflow of product %d", productID)
}
