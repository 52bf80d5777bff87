package service

import (
	"context"

	"pace_service_tool/internal/logger"
	"pace_service_tool/internal/models"
	"pace_service_tool/internal/repository"
)

// Form owns the session's nameplate record. Every successful update is
// followed by a best-effort save of the whole record.
type Form interface {
	Load(ctx context.Context) models.EquipmentRecord
	Save(ctx context.Context, r models.EquipmentRecord)
	Current() models.EquipmentRecord
	UpdateField(ctx context.Context, field models.Field, value string) (models.EquipmentRecord, error)
	UpdateMotor(ctx context.Context, p MotorParams) (models.EquipmentRecord, error)
	UpdateNested(ctx context.Context, p NestedParams) (models.EquipmentRecord, error)
}

// Telemetry produces simulated commissioning readouts on demand.
type Telemetry interface {
	RunTest() models.TelemetrySnapshot
	// Latest returns the most recent snapshot, if any test has run.
	Latest() (models.TelemetrySnapshot, bool)
}

type Service struct {
	Form
	Telemetry
}

func NewService(repos *repository.Repository, telemetry *TelemetryService, log *logger.Logger) *Service {
	return &Service{
		Form:      NewFormService(repos.FormRepo, log),
		Telemetry: telemetry,
	}
}
