package gates

import (
	"context"
	"time"
)

// ClaimOutcome is the result of an atomic create-if-absent on a gate key.
type ClaimOutcome int

const (
	Claimed ClaimOutcome = iota
	AlreadyClaimed
)

// Record is the persisted state for one claimed allowance. ClaimedAt is
// assigned by the store backend and is authoritative for cooldown recency.
type Record struct {
	Key           string
	OwnerIdentity string
	ClaimedAt     time.Time
	Metadata      map[string]string
}

// Store abstracts the remote document store holding gate records.
//
// Claim MUST be atomic: of N concurrent callers racing on the same key,
// exactly one sees Claimed and the rest see AlreadyClaimed. Insert is the
// deliberately weaker cooldown path — it appends a fresh record with no
// conditional check. Implementations report infrastructure failures as
// ErrUnavailable or ErrPermissionDenied (possibly wrapped).
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Read(ctx context.Context, key string) (*Record, error)
	Claim(ctx context.Context, key, owner string, metadata map[string]string) (ClaimOutcome, error)

	// LatestByOwner returns the most recently claimed record for an owner
	// identity, or nil when none exists.
	LatestByOwner(ctx context.Context, owner string) (*Record, error)
	Insert(ctx context.Context, owner string, metadata map[string]string) error
}
