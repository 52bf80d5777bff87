package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"pace_service_tool/internal/models"
	"pace_service_tool/internal/repository"
	"pace_service_tool/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mock
}

func sampleRecord(t *testing.T) models.EquipmentRecord {
	t.Helper()
	r := models.DefaultEquipmentRecord()
	var err error
	if r, err = r.WithField(models.FieldManufacturer, "Daikin"); err != nil {
		t.Fatal(err)
	}
	if r, err = r.WithField(models.FieldCompressorCount, "2"); err != nil {
		t.Fatal(err)
	}
	if r, err = r.WithMotor(models.GroupCompressors, 3, models.MotorLRA, "88"); err != nil {
		t.Fatal(err)
	}
	if r, err = r.WithNested(models.SectionCooling, "inputMaxKw", "7.2"); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestFormSQLite_Save_UpsertsEncodedRecordUnderFixedKey(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := repository.NewFormSQLite(conn, nil)
	rec := sampleRecord(t)

	isRecordJSON := sqlmockArgumentFunc(func(v driver.Value) bool {
		b, ok := v.([]byte)
		if !ok {
			return false
		}
		var got models.EquipmentRecord
		if err := json.Unmarshal(b, &got); err != nil {
			return false
		}
		return got == rec
	})
	isUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_slots")).
		WithArgs(repository.FormSlotKey, isRecordJSON, repository.CodecJSON, isUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFormSQLite_Save_ExecErrorIsPropagated(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := repository.NewFormSQLite(conn, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_slots")).
		WithArgs(repository.FormSlotKey, sqlmock.AnyArg(), repository.CodecJSON, sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	if err := repo.Save(context.Background(), models.DefaultEquipmentRecord()); err == nil {
		t.Fatalf("Save() expected error, got nil")
	}
}

func TestFormSQLite_Load_NoRowsReturnsErrNoRecord(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := repository.NewFormSQLite(conn, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value, codec FROM kv_slots")).
		WithArgs(repository.FormSlotKey).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Load(context.Background())
	if !errors.Is(err, repository.ErrNoRecord) {
		t.Fatalf("Load() err = %v, want ErrNoRecord", err)
	}
}

func TestFormSQLite_Load_DecodesAndNormalizes(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := repository.NewFormSQLite(conn, nil)

	rec := sampleRecord(t)
	rec.Compressors[0].Label = "tampered"
	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value, codec FROM kv_slots")).
		WithArgs(repository.FormSlotKey).
		WillReturnRows(sqlmock.NewRows([]string{"value", "codec"}).AddRow(payload, repository.CodecJSON))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := sampleRecord(t)
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestFormSQLite_Load_CorruptValueIsError(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := repository.NewFormSQLite(conn, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value, codec FROM kv_slots")).
		WithArgs(repository.FormSlotKey).
		WillReturnRows(sqlmock.NewRows([]string{"value", "codec"}).AddRow([]byte(`{"manufacturer":`), repository.CodecJSON))

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("Load() expected decode error")
	}
}

func TestFormSQLite_Load_CodecMismatchIsError(t *testing.T) {
	conn, mock := newMockDB(t)
	codec, err := repository.CodecByName(repository.CodecMsgpack)
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewFormSQLite(conn, codec)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value, codec FROM kv_slots")).
		WithArgs(repository.FormSlotKey).
		WillReturnRows(sqlmock.NewRows([]string{"value", "codec"}).AddRow([]byte(`{}`), repository.CodecJSON))

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("Load() expected codec mismatch error")
	}
}

func TestFormSQLite_RoundTripOnSQLiteFile(t *testing.T) {
	for _, name := range []string{repository.CodecJSON, repository.CodecMsgpack} {
		t.Run(name, func(t *testing.T) {
			conn, err := db.InitDB(filepath.Join(t.TempDir(), "pst.db"))
			if err != nil {
				t.Fatalf("InitDB: %v", err)
			}
			defer func() { _ = conn.Close() }()

			codec, err := repository.CodecByName(name)
			if err != nil {
				t.Fatal(err)
			}
			repo := repository.NewRepository(conn, codec).FormRepo
			ctx := context.Background()

			if _, err := repo.Load(ctx); !errors.Is(err, repository.ErrNoRecord) {
				t.Fatalf("Load() on empty db err = %v, want ErrNoRecord", err)
			}

			first := sampleRecord(t)
			if err := repo.Save(ctx, first); err != nil {
				t.Fatalf("Save(first): %v", err)
			}
			second, err := first.WithField(models.FieldSerialNumber, "SN-42")
			if err != nil {
				t.Fatal(err)
			}
			if err := repo.Save(ctx, second); err != nil {
				t.Fatalf("Save(second): %v", err)
			}

			got, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("Load(): %v", err)
			}
			if got != second {
				t.Fatalf("Load() = %+v, want %+v", got, second)
			}
		})
	}
}
