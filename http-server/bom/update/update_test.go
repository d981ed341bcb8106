package update

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"erp-golang/internal/errs"
	"erp-golang/internal/service/bom"
	"erp-golang/internal/storage"
)

type MockBOMUpdater struct {
	mock.Mock
}

func (m *MockBOMUpdater) UpdateComponent(ctx context.Context, bomID, componentID int64, patch storage.ComponentPatch) (*bom.Detail, error) {
	args := m.Called(ctx, bomID, componentID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bom.Detail), args.Error(1)
}

func (m *MockBOMUpdater) RemoveComponent(ctx context.Context, bomID, componentID int64) (*bom.Detail, error) {
	args := m.Called(ctx, bomID, componentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bom.Detail), args.Error(1)
}

func (m *MockBOMUpdater) ToggleActive(ctx context.Context, bomID int64) (*storage.BOM, error) {
	args := m.Called(ctx, bomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.BOM), args.Error(1)
}

func (m *MockBOMUpdater) Approve(ctx context.Context, bomID int64) (*storage.BOM, error) {
	args := m.Called(ctx, bomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.BOM), args.Error(1)
}

func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUpdateComponent_Success(t *testing.T) {
	mockService := new(MockBOMUpdater)
	mockService.On("UpdateComponent", mock.Anything, int64(7), int64(3), mock.MatchedBy(func(p storage.ComponentPatch) bool {
		return p.SequenceOrder == nil && p.Quantity != nil && p.Quantity.Equal(decimal.RequireFromString("4.25"))
	})).Return(&bom.Detail{BOM: storage.BOM{ID: 7}}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/boms/7/components/3", strings.NewReader(`{"quantity": "4.25"}`))
	req = withParams(req, "id", "7", "componentId", "3")
	rr := httptest.NewRecorder()

	UpdateComponent(slog.Default(), mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestUpdateComponent_EmptyPatch(t *testing.T) {
	mockService := new(MockBOMUpdater)

	req := withParams(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`)), "id", "7", "componentId", "3")
	rr := httptest.NewRecorder()

	UpdateComponent(slog.Default(), mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "UpdateComponent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateComponent_Collision(t *testing.T) {
	mockService := new(MockBOMUpdater)
	mockService.On("UpdateComponent", mock.Anything, int64(7), int64(3), mock.Anything).
		Return(nil, fmt.Errorf("service.bom.UpdateComponent: %w", &errs.DuplicateSequenceError{Scope: "bom 7", SequenceOrder: 1}))

	req := withParams(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"sequence_order": 1}`)), "id", "7", "componentId", "3")
	rr := httptest.NewRecorder()

	UpdateComponent(slog.Default(), mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeleteComponent_NotFound(t *testing.T) {
	mockService := new(MockBOMUpdater)
	mockService.On("RemoveComponent", mock.Anything, int64(7), int64(99)).
		Return(nil, fmt.Errorf("service.bom.RemoveComponent: component 99: %w", errs.ErrNotFound))

	req := withParams(httptest.NewRequest(http.MethodDelete, "/", nil), "id", "7", "componentId", "99")
	rr := httptest.NewRecorder()

	DeleteComponent(slog.Default(), mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteComponent_InvalidComponentID(t *testing.T) {
	mockService := new(MockBOMUpdater)

	req := withParams(httptest.NewRequest(http.MethodDelete, "/", nil), "id", "7", "componentId", "x")
	rr := httptest.NewRecorder()

	DeleteComponent(slog.Default(), mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestToggleActive(t *testing.T) {
	mockService := new(MockBOMUpdater)
	mockService.On("ToggleActive", mock.Anything, int64(7)).Return(&storage.BOM{ID: 7, IsActive: false}, nil)

	req := withParams(httptest.NewRequest(http.MethodPatch, "/", nil), "id", "7")
	rr := httptest.NewRecorder()

	ToggleActive(slog.Default(), mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp storage.BOM
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.False(t, resp.IsActive)
}

func TestApproveBOM(t *testing.T) {
	approvedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mockService := new(MockBOMUpdater)
	mockService.On("Approve", mock.Anything, int64(7)).
		Return(&storage.BOM{ID: 7, IsActive: true, IsApproved: true, ApprovedAt: &approvedAt}, nil)
	mockService.On("Approve", mock.Anything, int64(8)).
		Return(nil, errs.Validation("is_active", "inactive BOM cannot be approved"))

	rr := httptest.NewRecorder()
	ApproveBOM(slog.Default(), mockService).ServeHTTP(rr, withParams(httptest.NewRequest(http.MethodPost, "/", nil), "id", "7"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"is_approved":true`)

	rr = httptest.NewRecorder()
	ApproveBOM(slog.Default(), mockService).ServeHTTP(rr, withParams(httptest.NewRequest(http.MethodPost, "/", nil), "id", "8"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
