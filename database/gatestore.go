package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/gates"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgInsufficientPrivilege is the Postgres error code for ACL failures; every
// other store error is reported as transient.
const pgInsufficientPrivilege = "42501"

// GateStore is the Postgres-backed gates.Store. Claim atomicity rides on the
// gate_records primary key: INSERT ... ON CONFLICT DO NOTHING lets exactly one
// of any number of racing claimants insert the row.
type GateStore struct {
	db *gorm.DB
}

func NewGateStore(db *gorm.DB) *GateStore {
	return &GateStore{db: db}
}

func (s *GateStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.GateRecord{}).
		Where("key = ?", key).
		Count(&n).Error
	if err != nil {
		return false, mapStoreError(err)
	}
	return n > 0, nil
}

func (s *GateStore) Read(ctx context.Context, key string) (*gates.Record, error) {
	var rec models.GateRecord
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toGateRecord(&rec), nil
}

func (s *GateStore) Claim(ctx context.Context, key, owner string, metadata map[string]string) (gates.ClaimOutcome, error) {
	rec := models.GateRecord{
		Key:           key,
		OwnerIdentity: owner,
		Metadata:      toJSONMap(metadata),
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&rec)
	if res.Error != nil {
		return gates.AlreadyClaimed, mapStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gates.AlreadyClaimed, nil
	}
	return gates.Claimed, nil
}

func (s *GateStore) LatestByOwner(ctx context.Context, owner string) (*gates.Record, error) {
	var rec models.GateRecord
	err := s.db.WithContext(ctx).
		Where("owner_identity = ?", owner).
		Order("claimed_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toGateRecord(&rec), nil
}

func (s *GateStore) Insert(ctx context.Context, owner string, metadata map[string]string) error {
	rec := models.GateRecord{
		// Per-claim key: cooldown claims append, they never conflict.
		Key:           owner + "_" + uuid.NewString(),
		OwnerIdentity: owner,
		Metadata:      toJSONMap(metadata),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return mapStoreError(err)
	}
	return nil
}

func mapStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInsufficientPrivilege {
		return fmt.Errorf("%w: %v", gates.ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %v", gates.ErrUnavailable, err)
}

func toJSONMap(m map[string]string) datatypes.JSONMap {
	if len(m) == 0 {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toGateRecord(rec *models.GateRecord) *gates.Record {
	out := &gates.Record{
		Key:           rec.Key,
		OwnerIdentity: rec.OwnerIdentity,
		ClaimedAt:     rec.ClaimedAt,
	}
	if len(rec.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(rec.Metadata))
		for k, v := range rec.Metadata {
			if s, ok := v.(string); ok {
				out.Metadata[k] = s
			} else {
				out.Metadata[k] = fmt.Sprint(v)
			}
		}
	}
	return out
}
