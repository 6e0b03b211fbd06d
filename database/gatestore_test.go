package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/gates"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockStore creates a GateStore over sqlmock with automatic cleanup and
// expectation checking.
func newMockStore(t *testing.T) (*GateStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm over sqlmock: %v", err)
	}
	return NewGateStore(gdb), mock
}

var gateRecordColumns = []string{"key", "owner_identity", "claimed_at", "metadata"}

func TestGateStoreExists(t *testing.T) {
	for _, tc := range []struct {
		name  string
		count int
		want  bool
	}{
		{"present", 1, true},
		{"absent", 0, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			mock.ExpectQuery(`SELECT count\(\*\) FROM "gate_records" WHERE key = \$1`).
				WithArgs("U1_2026-01").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tc.count))

			got, err := store.Exists(context.Background(), "U1_2026-01")
			if err != nil {
				t.Fatalf("Exists: %v", err)
			}
			if got != tc.want {
				t.Errorf("Exists = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGateStoreExistsUnavailable(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "gate_records"`).
		WillReturnError(sql.ErrConnDone)

	_, err := store.Exists(context.Background(), "U1_2026-01")
	if !errors.Is(err, gates.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestGateStoreClaimWinsRace(t *testing.T) {
	store, mock := newMockStore(t)
	// claimed_at carries a DB default, so GORM omits it from the insert and
	// reads it back via RETURNING.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "gate_records" .+ ON CONFLICT \("key"\) DO NOTHING RETURNING "claimed_at"`).
		WithArgs("U1_2026-01", "U1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"claimed_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	outcome, err := store.Claim(context.Background(), "U1_2026-01", "U1", map[string]string{"month": "2026-01"})
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if outcome != gates.Claimed {
		t.Errorf("outcome = %v, want Claimed", outcome)
	}
}

func TestGateStoreClaimLosesRace(t *testing.T) {
	store, mock := newMockStore(t)
	// A conflicting insert returns no row, so RowsAffected stays 0.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "gate_records" .+ ON CONFLICT \("key"\) DO NOTHING RETURNING "claimed_at"`).
		WithArgs("U1_2026-01", "U1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"claimed_at"}))
	mock.ExpectCommit()

	outcome, err := store.Claim(context.Background(), "U1_2026-01", "U1", nil)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if outcome != gates.AlreadyClaimed {
		t.Errorf("outcome = %v, want AlreadyClaimed", outcome)
	}
}

func TestGateStoreClaimPermissionDenied(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "gate_records"`).
		WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for table gate_records"})
	mock.ExpectRollback()

	_, err := store.Claim(context.Background(), "U1_2026-01", "U1", nil)
	if !errors.Is(err, gates.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestGateStoreClaimUnavailable(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "gate_records"`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := store.Claim(context.Background(), "U1_2026-01", "U1", nil)
	if !errors.Is(err, gates.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestGateStoreReadFound(t *testing.T) {
	store, mock := newMockStore(t)
	claimed := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "gate_records" WHERE key = \$1`).
		WithArgs("U1_2026-01", 1).
		WillReturnRows(sqlmock.NewRows(gateRecordColumns).
			AddRow("U1_2026-01", "U1", claimed, []byte(`{"month":"2026-01"}`)))

	rec, err := store.Read(context.Background(), "U1_2026-01")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec == nil {
		t.Fatal("Read returned nil record")
	}
	if rec.OwnerIdentity != "U1" || !rec.ClaimedAt.Equal(claimed) {
		t.Errorf("record = %+v", rec)
	}
	if rec.Metadata["month"] != "2026-01" {
		t.Errorf("metadata = %v, want month=2026-01", rec.Metadata)
	}
}

func TestGateStoreReadAbsent(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT \* FROM "gate_records" WHERE key = \$1`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows(gateRecordColumns))

	rec, err := store.Read(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec != nil {
		t.Fatalf("Read = %+v, want nil for absent key", rec)
	}
}

func TestGateStoreLatestByOwner(t *testing.T) {
	store, mock := newMockStore(t)
	claimed := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "gate_records" WHERE owner_identity = \$1 ORDER BY claimed_at DESC`).
		WithArgs("15551234567", 1).
		WillReturnRows(sqlmock.NewRows(gateRecordColumns).
			AddRow("15551234567_abc", "15551234567", claimed, nil))

	rec, err := store.LatestByOwner(context.Background(), "15551234567")
	if err != nil {
		t.Fatalf("LatestByOwner: %v", err)
	}
	if rec == nil || !rec.ClaimedAt.Equal(claimed) {
		t.Fatalf("record = %+v, want claimed_at %v", rec, claimed)
	}
}

func TestGateStoreLatestByOwnerNone(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT \* FROM "gate_records" WHERE owner_identity = \$1`).
		WithArgs("nobody", 1).
		WillReturnRows(sqlmock.NewRows(gateRecordColumns))

	rec, err := store.LatestByOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("LatestByOwner: %v", err)
	}
	if rec != nil {
		t.Fatalf("record = %+v, want nil", rec)
	}
}

func TestGateStoreInsertAppends(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "gate_records" \(.+\) VALUES \(.+\) RETURNING "claimed_at"$`).
		WillReturnRows(sqlmock.NewRows([]string{"claimed_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	if err := store.Insert(context.Background(), "15551234567", map[string]string{"kind": "classified"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}
