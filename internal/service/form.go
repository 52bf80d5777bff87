package service

import (
	"context"
	"errors"
	"sync"

	"pace_service_tool/internal/logger"
	"pace_service_tool/internal/models"
	"pace_service_tool/internal/repository"
)

type FormService struct {
	repo repository.FormRepo
	log  *logger.Logger

	mu      sync.Mutex
	current models.EquipmentRecord
}

func NewFormService(repo repository.FormRepo, log *logger.Logger) *FormService {
	return &FormService{
		repo:    repo,
		log:     log,
		current: models.DefaultEquipmentRecord(),
	}
}

// Load reads the stored record and makes it current. A missing or
// unreadable slot yields the default record; it never fails.
func (s *FormService) Load(ctx context.Context) models.EquipmentRecord {
	rec, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNoRecord) && s.log != nil {
			s.log.Warnw("form_load_failed_using_defaults", "err", err)
		}
		rec = models.DefaultEquipmentRecord()
	}

	s.mu.Lock()
	s.current = rec
	s.mu.Unlock()
	return rec
}

// Save writes the record once. Failures are logged and dropped; the
// in-memory record stays as it is until a later save succeeds.
func (s *FormService) Save(ctx context.Context, rec models.EquipmentRecord) {
	if err := s.repo.Save(ctx, rec); err != nil && s.log != nil {
		s.log.Warnw("form_save_failed", "err", err)
	}
}

func (s *FormService) Current() models.EquipmentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *FormService) UpdateField(ctx context.Context, field models.Field, value string) (models.EquipmentRecord, error) {
	return s.apply(ctx, func(r models.EquipmentRecord) (models.EquipmentRecord, error) {
		return r.WithField(field, value)
	})
}

func (s *FormService) UpdateMotor(ctx context.Context, p MotorParams) (models.EquipmentRecord, error) {
	return s.apply(ctx, func(r models.EquipmentRecord) (models.EquipmentRecord, error) {
		return r.WithMotor(p.Group, p.Index, p.Field, p.Value)
	})
}

func (s *FormService) UpdateNested(ctx context.Context, p NestedParams) (models.EquipmentRecord, error) {
	return s.apply(ctx, func(r models.EquipmentRecord) (models.EquipmentRecord, error) {
		return r.WithNested(p.Section, p.Field, p.Value)
	})
}

// apply replaces the current record with update(current) and persists it.
// A rejected update leaves both the record and the slot untouched.
func (s *FormService) apply(ctx context.Context, update func(models.EquipmentRecord) (models.EquipmentRecord, error)) (models.EquipmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := update(s.current)
	if err != nil {
		return s.current, err
	}
	s.current = next
	s.Save(ctx, next)
	return next, nil
}
