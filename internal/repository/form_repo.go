package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pace_service_tool/internal/models"
)

// FormSlotKey names the durable slot. The version suffix changes whenever
// the stored layout does, so older data is never misread.
const FormSlotKey = "pst-form-v1"

var ErrNoRecord = errors.New("no stored record")

const (
	upsertSlotSQL = `
		INSERT INTO kv_slots (key, value, codec, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			codec=excluded.codec,
			updated_at=excluded.updated_at
	`

	selectSlotSQL = `
		SELECT value, codec FROM kv_slots WHERE key=?
	`
)

type FormSQLite struct {
	db    *sql.DB
	codec Codec
	key   string
}

var _ FormRepo = (*FormSQLite)(nil)

// NewFormSQLite stores the record under FormSlotKey. A nil codec means JSON.
func NewFormSQLite(db *sql.DB, codec Codec) *FormSQLite {
	if codec == nil {
		codec = jsonCodec{}
	}
	return &FormSQLite{db: db, codec: codec, key: FormSlotKey}
}

// Save encodes the whole record and overwrites the slot.
func (r *FormSQLite) Save(ctx context.Context, rec models.EquipmentRecord) error {
	value, err := r.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", r.codec.Name(), err)
	}
	if _, err := r.db.ExecContext(ctx, upsertSlotSQL, r.key, value, r.codec.Name(), time.Now().UTC()); err != nil {
		return fmt.Errorf("write slot %q: %w", r.key, err)
	}
	return nil
}

// Load reads and decodes the slot. Data written by another codec is an error.
func (r *FormSQLite) Load(ctx context.Context) (models.EquipmentRecord, error) {
	var (
		value     []byte
		codecName string
	)
	err := r.db.QueryRowContext(ctx, selectSlotSQL, r.key).Scan(&value, &codecName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EquipmentRecord{}, ErrNoRecord
		}
		return models.EquipmentRecord{}, fmt.Errorf("read slot %q: %w", r.key, err)
	}
	if codecName != r.codec.Name() {
		return models.EquipmentRecord{}, fmt.Errorf("slot %q holds %s data, want %s", r.key, codecName, r.codec.Name())
	}

	var rec models.EquipmentRecord
	if err := r.codec.Unmarshal(value, &rec); err != nil {
		return models.EquipmentRecord{}, fmt.Errorf("decode slot %q: %w", r.key, err)
	}
	return rec.Normalize(), nil
}
