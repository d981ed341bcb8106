package get

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"erp-golang/internal/errs"
	"erp-golang/internal/service/maintenance"
	"erp-golang/internal/storage"
)

type MockScheduleProvider struct {
	mock.Mock
}

func (m *MockScheduleProvider) Get(ctx context.Context, id int64) (*maintenance.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*maintenance.Schedule), args.Error(1)
}

func (m *MockScheduleProvider) List(ctx context.Context, dueOnly bool) ([]maintenance.Schedule, error) {
	args := m.Called(ctx, dueOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]maintenance.Schedule), args.Error(1)
}

func TestGetMachines_DueOnly(t *testing.T) {
	last := storage.NewDate(2024, time.January, 1)
	now := time.Date(2024, time.February, 15, 8, 0, 0, 0, time.UTC)

	schedule := maintenance.NewSchedule(storage.Machine{
		ID:                  1,
		MachineCode:         "M-01",
		Status:              storage.MachineAvailable,
		MaintenanceInterval: 30,
		LastMaintenanceDate: &last,
	}, now)

	mockService := new(MockScheduleProvider)
	mockService.On("List", mock.Anything, true).Return([]maintenance.Schedule{schedule}, nil)

	rr := httptest.NewRecorder()
	GetMachines(slog.Default(), mockService).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/manufacturing/machines?due=true", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []struct {
		MachineCode         string `json:"machine_code"`
		NextMaintenanceDate string `json:"next_maintenance_date"`
		NeedsMaintenance    bool   `json:"needs_maintenance"`
		DaysUntilDue        *int   `json:"days_until_due"`
	}
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "2024-01-31", resp[0].NextMaintenanceDate)
	assert.True(t, resp[0].NeedsMaintenance)
	require.NotNil(t, resp[0].DaysUntilDue)
	assert.Equal(t, -15, *resp[0].DaysUntilDue)

	mockService.AssertExpectations(t)
}

func TestGetMachines_DefaultAll(t *testing.T) {
	mockService := new(MockScheduleProvider)
	mockService.On("List", mock.Anything, false).Return(nil, nil)

	rr := httptest.NewRecorder()
	GetMachines(slog.Default(), mockService).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/manufacturing/machines", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestGetMachines_InvalidDue(t *testing.T) {
	mockService := new(MockScheduleProvider)

	rr := httptest.NewRecorder()
	GetMachines(slog.Default(), mockService).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/manufacturing/machines?due=maybe", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetMachine_NotFound(t *testing.T) {
	mockService := new(MockScheduleProvider)
	mockService.On("Get", mock.Anything, int64(3)).Return(nil, errs.ErrNotFound)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "3")
	req := httptest.NewRequest(http.MethodGet, "/api/manufacturing/machines/3", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	GetMachine(slog.Default(), mockService).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
