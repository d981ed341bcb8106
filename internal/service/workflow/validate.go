package workflow

import (
	"fmt"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

func Validate(c storage.ProcessConfig) error {
	if c.Product <= 0 {
		return errs.Validation("product", "is required")
	}
	if c.Process <= 0 {
		return errs.Validation("process", "is required")
	}
	if c.SequenceOrder <= 0 {
		return errs.Validation("sequence_order", "must be a positive integer")
	}
	if _, ok := statusRank[c.Status]; !ok {
		return errs.Validation("status", fmt.Sprintf("unknown status %q", c.Status))
	}

	times := []struct {
		field string
		value *float64
	}{
		{"machine_time", c.MachineTime},
		{"setup_time", c.SetupTime},
		{"net_time", c.NetTime},
		{"cycle_time", c.CycleTime},
	}
	for _, t := range times {
		if t.value != nil && *t.value < 0 {
			return errs.Validation(t.field, "must not be negative")
		}
	}

	if c.AxisCount != nil && *c.AxisCount < 0 {
		return errs.Validation("axis_count", "must not be negative")
	}
	if c.NumberOfBindings != nil && *c.NumberOfBindings < 0 {
		return errs.Validation("number_of_bindings", "must not be negative")
	}

	return nil
}

func ApplyPatch(c storage.ProcessConfig, patch storage.ProcessConfigPatch) storage.ProcessConfig {
	if patch.SequenceOrder != nil {
		c.SequenceOrder = *patch.SequenceOrder
	}
	if patch.AxisCount != nil {
		c.AxisCount = patch.AxisCount
	}
	if patch.MachineTime != nil {
		c.MachineTime = patch.MachineTime
	}
	if patch.SetupTime != nil {
		c.SetupTime = patch.SetupTime
	}
	if patch.NetTime != nil {
		c.NetTime = patch.NetTime
	}
	if patch.CycleTime != nil {
		c.CycleTime = patch.CycleTime
	}
	if patch.NumberOfBindings != nil {
		c.NumberOfBindings = patch.NumberOfBindings
	}
	if patch.Tool != nil {
		c.Tool = patch.Tool
	}
	if patch.Fixture != nil {
		c.Fixture = patch.Fixture
	}
	if patch.ControlGauge != nil {
		c.ControlGauge = patch.ControlGauge
	}
	return c
}
