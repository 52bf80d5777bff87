package handlers

import (
	"context"

	"pace_service_tool/internal/models"
	"pace_service_tool/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockForm struct {
	current   models.EquipmentRecord
	updateErr error

	lastField  models.Field
	lastValue  string
	lastMotor  service.MotorParams
	lastNested service.NestedParams
	updates    int
}

func newMockForm() *mockForm {
	return &mockForm{current: models.DefaultEquipmentRecord()}
}

func (m *mockForm) Load(ctx context.Context) models.EquipmentRecord { return m.current }

func (m *mockForm) Save(ctx context.Context, r models.EquipmentRecord) {}

func (m *mockForm) Current() models.EquipmentRecord { return m.current }

func (m *mockForm) UpdateField(ctx context.Context, field models.Field, value string) (models.EquipmentRecord, error) {
	m.updates++
	m.lastField, m.lastValue = field, value
	if m.updateErr != nil {
		return m.current, m.updateErr
	}
	next, err := m.current.WithField(field, value)
	if err != nil {
		return m.current, err
	}
	m.current = next
	return next, nil
}

func (m *mockForm) UpdateMotor(ctx context.Context, p service.MotorParams) (models.EquipmentRecord, error) {
	m.updates++
	m.lastMotor = p
	if m.updateErr != nil {
		return m.current, m.updateErr
	}
	next, err := m.current.WithMotor(p.Group, p.Index, p.Field, p.Value)
	if err != nil {
		return m.current, err
	}
	m.current = next
	return next, nil
}

func (m *mockForm) UpdateNested(ctx context.Context, p service.NestedParams) (models.EquipmentRecord, error) {
	m.updates++
	m.lastNested = p
	if m.updateErr != nil {
		return m.current, m.updateErr
	}
	next, err := m.current.WithNested(p.Section, p.Field, p.Value)
	if err != nil {
		return m.current, err
	}
	m.current = next
	return next, nil
}

type mockTelemetry struct {
	snap   models.TelemetrySnapshot
	runs   int
	hasRun bool
}

func (m *mockTelemetry) RunTest() models.TelemetrySnapshot {
	m.runs++
	m.hasRun = true
	return m.snap
}

func (m *mockTelemetry) Latest() (models.TelemetrySnapshot, bool) {
	return m.snap, m.hasRun
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}
