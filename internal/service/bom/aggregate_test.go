package bom

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

func TestNewBOM_SortsComponents(t *testing.T) {
	b, err := NewBOM(testProduct(), "v1", []storage.BOMComponent{
		productComponent(0, 30, "1"),
		processComponent(0, 10, "1"),
		productComponent(0, 20, "2.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 30}, sequences(b.Components))
	assert.Equal(t, int64(11), b.Product)
	assert.True(t, b.IsActive)
	assert.False(t, b.IsApproved)
}

func TestNewBOM_DuplicateSequence(t *testing.T) {
	_, err := NewBOM(testProduct(), "v1", []storage.BOMComponent{
		productComponent(0, 1, "1"),
		processComponent(0, 1, "1"),
	})

	var dup *errs.DuplicateSequenceError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 1, dup.SequenceOrder)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestNewBOM_Validation(t *testing.T) {
	tests := []struct {
		name    string
		product *storage.Product
		version string
		comps   []storage.BOMComponent
	}{
		{"no product", nil, "v1", nil},
		{"empty version", testProduct(), "   ", nil},
		{"zero sequence", testProduct(), "v1", []storage.BOMComponent{productComponent(0, 0, "1")}},
		{"negative sequence", testProduct(), "v1", []storage.BOMComponent{productComponent(0, -2, "1")}},
		{"zero quantity", testProduct(), "v1", []storage.BOMComponent{productComponent(0, 1, "0")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBOM(tt.product, tt.version, tt.comps)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestNewBOM_UnknownComponentType(t *testing.T) {
	c := productComponent(0, 1, "1")
	c.ComponentType = "RAW_MATERIAL"

	_, err := NewBOM(testProduct(), "v1", []storage.BOMComponent{c})

	var unknown *errs.UnknownComponentTypeError
	assert.True(t, errors.As(err, &unknown))
}

func TestNewBOM_EmptyComponentListAllowed(t *testing.T) {
	b, err := NewBOM(testProduct(), "v1", nil)
	require.NoError(t, err)
	assert.Empty(t, b.Components)
}

func TestAddComponent_Collision(t *testing.T) {
	b := storage.BOM{ID: 1, Version: "v1", Components: []storage.BOMComponent{
		productComponent(1, 1, "1"),
		processComponent(2, 3, "1"),
	}}
	before := append([]storage.BOMComponent(nil), b.Components...)

	components, err := AddComponent(b, productComponent(0, 3, "4"))

	assert.Nil(t, components)
	var dup *errs.DuplicateSequenceError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 3, dup.SequenceOrder)
	assert.Equal(t, before, b.Components)
}

func TestAddComponent_Success(t *testing.T) {
	b := storage.BOM{ID: 7, Version: "v1", Components: []storage.BOMComponent{
		productComponent(1, 5, "1"),
		processComponent(2, 1, "1"),
	}}

	components, err := AddComponent(b, productComponent(0, 3, "4"))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3, 5}, sequences(components))
	assert.Equal(t, int64(7), components[1].BOM)
	assert.Len(t, b.Components, 2)
}

func TestAddComponent_IgnoresClientID(t *testing.T) {
	b := storage.BOM{ID: 7, Version: "v1", Components: []storage.BOMComponent{productComponent(7, 1, "1")}}

	components, err := AddComponent(b, productComponent(7, 2, "1"))
	require.NoError(t, err)

	require.Len(t, components, 2)
	assert.Equal(t, int64(7), components[0].ID)
	assert.Equal(t, int64(0), components[1].ID)
}

func TestRemoveComponent_KeepsSequenceOrders(t *testing.T) {
	b := storage.BOM{ID: 1, Components: []storage.BOMComponent{
		productComponent(1, 10, "1"),
		productComponent(2, 20, "1"),
		productComponent(3, 30, "1"),
	}}

	components, err := RemoveComponent(b, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 30}, sequences(components))
	assert.Len(t, b.Components, 3)
}

func TestRemoveComponent_NotFound(t *testing.T) {
	b := storage.BOM{ID: 1, Components: []storage.BOMComponent{productComponent(1, 1, "1")}}

	_, err := RemoveComponent(b, 99)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateComponent_QuantityAndNotes(t *testing.T) {
	b := storage.BOM{ID: 1, Components: []storage.BOMComponent{
		productComponent(1, 1, "1"),
		productComponent(2, 2, "1"),
	}}

	qty := decimal.RequireFromString("3.125")
	notes := "после покраски"

	components, updated, err := UpdateComponent(b, 2, storage.ComponentPatch{Quantity: &qty, Notes: &notes})
	require.NoError(t, err)

	assert.True(t, qty.Equal(updated.Quantity))
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	assert.Equal(t, "3.125", components[1].Quantity.String())
	assert.Equal(t, "1", b.Components[1].Quantity.String())
}

func TestUpdateComponent_SequenceCollision(t *testing.T) {
	b := storage.BOM{ID: 1, Components: []storage.BOMComponent{
		productComponent(1, 1, "1"),
		productComponent(2, 2, "1"),
	}}

	seq := 1
	_, _, err := UpdateComponent(b, 2, storage.ComponentPatch{SequenceOrder: &seq})

	var dup *errs.DuplicateSequenceError
	assert.True(t, errors.As(err, &dup))
}

func TestUpdateComponent_SequenceMove(t *testing.T) {
	b := storage.BOM{ID: 1, Components: []storage.BOMComponent{
		productComponent(1, 1, "1"),
		productComponent(2, 2, "1"),
	}}

	seq := 5
	components, updated, err := UpdateComponent(b, 1, storage.ComponentPatch{SequenceOrder: &seq})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.SequenceOrder)
	assert.Equal(t, []int{2, 5}, sequences(components))
}

func TestUpdateComponent_RejectsZeroQuantity(t *testing.T) {
	b := storage.BOM{ID: 1, Components: []storage.BOMComponent{productComponent(1, 1, "1")}}

	qty := decimal.Zero
	_, _, err := UpdateComponent(b, 1, storage.ComponentPatch{Quantity: &qty})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestToggleActive(t *testing.T) {
	approvedAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	b := storage.BOM{ID: 1, IsActive: true, IsApproved: true, ApprovedAt: &approvedAt,
		Components: []storage.BOMComponent{productComponent(1, 1, "1")}}

	toggled := ToggleActive(b)

	assert.False(t, toggled.IsActive)
	assert.True(t, toggled.IsApproved)
	assert.Equal(t, &approvedAt, toggled.ApprovedAt)
	assert.Equal(t, b.Components, toggled.Components)
	assert.True(t, ToggleActive(toggled).IsActive)
}

func TestApprove(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	approved, err := Approve(storage.BOM{ID: 1, IsActive: true}, now)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, now, *approved.ApprovedAt)

	_, err = Approve(approved, now)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = Approve(storage.BOM{ID: 2, IsActive: false}, now)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestNewVersion(t *testing.T) {
	parent := storage.BOM{ID: 4, Product: 11, Version: "v1", Components: []storage.BOMComponent{
		productComponent(1, 20, "1"),
		processComponent(2, 10, "1"),
	}}

	child, err := NewVersion(parent, "v2")
	require.NoError(t, err)

	require.NotNil(t, child.ParentBOM)
	assert.Equal(t, int64(4), *child.ParentBOM)
	assert.Equal(t, int64(11), child.Product)
	assert.Equal(t, []int{10, 20}, sequences(child.Components))
	for _, c := range child.Components {
		assert.Zero(t, c.ID)
		assert.Zero(t, c.BOM)
	}
	assert.Equal(t, int64(1), parent.Components[0].ID)

	_, err = NewVersion(parent, "v1")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewVersion(parent, "")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestLines_FailOnUnknownType(t *testing.T) {
	bad := productComponent(2, 2, "1")
	bad.ComponentType = "SERVICE"

	_, err := Lines([]storage.BOMComponent{productComponent(1, 1, "1"), bad})

	var unknown *errs.UnknownComponentTypeError
	assert.True(t, errors.As(err, &unknown))
}

func TestLines_Sorted(t *testing.T) {
	lines, err := Lines([]storage.BOMComponent{
		processComponent(2, 20, "1"),
		productComponent(1, 10, "2"),
	})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, 10, lines[0].SequenceOrder)
	assert.Equal(t, "pcs", lines[0].Unit)
	assert.Equal(t, "op", lines[1].Unit)
}
