package repository

import (
	"context"
	"database/sql"

	"pace_service_tool/internal/models"
)

// FormRepo persists the single nameplate record.
type FormRepo interface {
	Save(ctx context.Context, r models.EquipmentRecord) error
	// Load returns ErrNoRecord when nothing has been saved yet.
	Load(ctx context.Context) (models.EquipmentRecord, error)
}

type Repository struct {
	FormRepo FormRepo
}

func NewRepository(db *sql.DB, codec Codec) *Repository {
	return &Repository{
		FormRepo: NewFormSQLite(db, codec),
	}
}
