package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

func createTestProduct(t *testing.T, code string, productType storage.ProductType) int64 {
	res, err := testDB.Exec(`INSERT INTO products (product_code, product_name, product_type) VALUES (?, ?, ?)`,
		code, "Изделие "+code, string(productType))
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func createTestProcess(t *testing.T, code, name string) int64 {
	res, err := testDB.Exec(`INSERT INTO manufacturing_processes (process_code, process_name) VALUES (?, ?)`, code, name)
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestStorage_GetProduct(t *testing.T) {
	s := requireDB(t)
	ctx := context.Background()

	id := createTestProduct(t, "P-001", storage.ProductSemi)

	p, err := s.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "P-001", p.ProductCode)
	assert.Equal(t, storage.ProductSemi, p.ProductType)

	_, err = s.GetProduct(ctx, id+1000)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestStorage_BOMRoundTrip(t *testing.T) {
	s := requireDB(t)
	ctx := context.Background()

	productID := createTestProduct(t, "P-100", storage.ProductMontaged)
	partID := createTestProduct(t, "P-101", storage.ProductStandardPart)
	processID := createTestProcess(t, "OP-10", "Фрезерование")

	configID, err := s.CreateProcessConfig(ctx, storage.ProcessConfig{
		Product:       productID,
		Process:       processID,
		SequenceOrder: 10,
		Status:        storage.ProcessDraft,
	})
	require.NoError(t, err)

	bomID, err := s.CreateBOM(ctx, storage.BOM{
		Product:  productID,
		Version:  "1.0",
		IsActive: true,
		Components: []storage.BOMComponent{
			{
				SequenceOrder: 1,
				Quantity:      decimal.RequireFromString("2.5"),
				ComponentType: storage.ComponentProduct,
				Details:       storage.ComponentDetails{Product: &storage.ProductRef{ID: partID}},
			},
			{
				SequenceOrder: 2,
				Quantity:      decimal.NewFromInt(1),
				ComponentType: storage.ComponentProcessConfig,
				Details:       storage.ComponentDetails{ProcessConfig: &storage.ProcessConfigRef{ID: configID}},
			},
		},
	})
	require.NoError(t, err)

	b, err := s.GetBOM(ctx, bomID)
	require.NoError(t, err)
	require.Len(t, b.Components, 2)

	first := b.Components[0]
	assert.True(t, first.Quantity.Equal(decimal.RequireFromString("2.5")))
	require.NotNil(t, first.Details.Product)
	assert.Equal(t, "P-101", first.Details.Product.ProductCode)
	assert.Equal(t, storage.ProductStandardPart, first.Details.Product.ProductType)

	second := b.Components[1]
	require.NotNil(t, second.Details.ProcessConfig)
	assert.Equal(t, "OP-10", second.Details.ProcessConfig.ProcessCode)
	assert.Equal(t, 10, second.Details.ProcessConfig.SequenceOrder)

	// уникальный ключ (bom_id, sequence_order)
	_, err = s.InsertComponent(ctx, storage.BOMComponent{
		BOM:           bomID,
		SequenceOrder: 1,
		Quantity:      decimal.NewFromInt(1),
		ComponentType: storage.ComponentProduct,
		Details:       storage.ComponentDetails{Product: &storage.ProductRef{ID: partID}},
	})
	var dup *errs.DuplicateSequenceError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 1, dup.SequenceOrder)

	require.NoError(t, s.DeleteComponent(ctx, bomID, first.ID))
	err = s.DeleteComponent(ctx, bomID, first.ID)
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	approvedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.IsApproved = true
	b.ApprovedAt = &approvedAt
	require.NoError(t, s.UpdateBOMState(ctx, *b))

	boms, err := s.GetBOMsByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, boms, 1)
	assert.True(t, boms[0].IsApproved)
	assert.Len(t, boms[0].Components, 1)
}

func TestStorage_CreateBOM_DuplicateVersion(t *testing.T) {
	s := requireDB(t)
	ctx := context.Background()

	productID := createTestProduct(t, "P-200", storage.ProductSingle)

	_, err := s.CreateBOM(ctx, storage.BOM{Product: productID, Version: "1.0", IsActive: true})
	require.NoError(t, err)

	_, err = s.CreateBOM(ctx, storage.BOM{Product: productID, Version: "1.0", IsActive: true})
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestStorage_ProcessConfigs(t *testing.T) {
	s := requireDB(t)
	ctx := context.Background()

	productID := createTestProduct(t, "P-300", storage.ProductSingle)
	processID := createTestProcess(t, "OP-20", "Токарная")

	cycle := 3.5
	id, err := s.CreateProcessConfig(ctx, storage.ProcessConfig{
		Product:       productID,
		Process:       processID,
		SequenceOrder: 20,
		CycleTime:     &cycle,
		Tool:          &storage.Equipment{Code: "T-1", Name: "Резец"},
		Status:        storage.ProcessDraft,
	})
	require.NoError(t, err)

	_, err = s.CreateProcessConfig(ctx, storage.ProcessConfig{
		Product:       productID,
		Process:       processID,
		SequenceOrder: 20,
		Status:        storage.ProcessDraft,
	})
	var dup *errs.DuplicateSequenceError
	require.True(t, errors.As(err, &dup))

	c, err := s.GetProcessConfig(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "OP-20", c.ProcessCode)
	require.NotNil(t, c.CycleTime)
	assert.InDelta(t, 3.5, *c.CycleTime, 1e-9)
	assert.Nil(t, c.MachineTime)
	require.NotNil(t, c.Tool)
	assert.Equal(t, "Резец", c.Tool.Name)
	assert.Nil(t, c.Fixture)

	require.NoError(t, s.UpdateProcessConfigStatus(ctx, id, storage.ProcessActive))

	configs, err := s.GetProcessConfigs(ctx, productID)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, storage.ProcessActive, configs[0].Status)

	require.NoError(t, s.DeleteProcessConfig(ctx, id))
	_, err = s.GetProcessConfig(ctx, id)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestStorage_Machines(t *testing.T) {
	s := requireDB(t)
	ctx := context.Background()

	res, err := testDB.Exec(`INSERT INTO machines (machine_code, machine_name, machine_type, maintenance_interval) VALUES (?, ?, ?, ?)`,
		"M-01", "DMG Mori", "CNC", 30)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	m, err := s.GetMachine(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, m.LastMaintenanceDate)
	assert.Equal(t, storage.MachineAvailable, m.Status)

	last := storage.NewDate(2026, time.March, 1)
	next := last.AddDays(30)
	m.LastMaintenanceDate = &last
	m.NextMaintenanceDate = &next
	require.NoError(t, s.SaveMaintenance(ctx, *m))

	m, err = s.GetMachine(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m.NextMaintenanceDate)
	assert.Equal(t, "2026-03-31", m.NextMaintenanceDate.String())

	require.NoError(t, s.UpdateMachineStatus(ctx, id, storage.MachineRetired))

	machines, err := s.GetMachines(ctx)
	require.NoError(t, err)
	require.Len(t, machines, 1)
	assert.Equal(t, storage.MachineRetired, machines[0].Status)

	err = s.UpdateMachineStatus(ctx, id+1000, storage.MachineInUse)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}
