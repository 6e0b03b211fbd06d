package gates

import (
	"context"
	"fmt"
	"time"
)

// Kind selects the gate's key-derivation and existence semantics.
type Kind int

const (
	// MonthlyPerUser blocks within a calendar month; the key embeds the
	// period token, so rollover naturally frees the allowance.
	MonthlyPerUser Kind = iota + 1
	// LifetimePerPlace blocks a place fingerprint forever once claimed.
	LifetimePerPlace
	// CooldownPerContact blocks while the owner's most recent record is
	// younger than the window. Its claim is a plain insert, not atomic.
	CooldownPerContact
)

// Gate describes one bounded-frequency rule.
type Gate struct {
	Kind       Kind
	WindowDays int // CooldownPerContact only
}

func Monthly() Gate          { return Gate{Kind: MonthlyPerUser} }
func Lifetime() Gate         { return Gate{Kind: LifetimePerPlace} }
func Cooldown(days int) Gate { return Gate{Kind: CooldownPerContact, WindowDays: days} }

// Decision is the terminal business outcome of a gate check.
type Decision int

const (
	Allowed Decision = iota + 1
	AlreadyUsed
)

// Result carries the decision plus user-messaging context. RemainingDays is
// populated only for cooldown denials.
type Result struct {
	Decision      Decision
	Key           string
	RemainingDays int
}

// Clock supplies the evaluation timestamp; controllers inject it so tests can
// pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// Engine decides whether an identity may publish a rate-limited resource and,
// when asked, atomically consumes the allowance. The store is injected; the
// engine holds no state and never caches records between calls.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Evaluate runs one gate check. With claim=false it is a pure read usable for
// pre-flight UI checks and never consumes the allowance. With claim=true it
// reserves the slot for MonthlyPerUser/LifetimePerPlace via the store's atomic
// claim, and records a fresh claim for CooldownPerContact.
//
// Any store failure is returned as an error and must be treated as "not
// allowed" by the caller; Evaluate never converts a failure into Allowed.
func (e *Engine) Evaluate(ctx context.Context, gate Gate, identity string, now time.Time, claim bool, metadata map[string]string) (Result, error) {
	switch gate.Kind {
	case MonthlyPerUser:
		return e.evaluateKeyed(ctx, identity+"_"+PeriodKey(now), identity, claim, metadata)
	case LifetimePerPlace:
		// The identity is the place fingerprint and doubles as the key.
		return e.evaluateKeyed(ctx, identity, identity, claim, metadata)
	case CooldownPerContact:
		return e.evaluateCooldown(ctx, gate, identity, now, claim, metadata)
	default:
		return Result{}, fmt.Errorf("unknown gate kind %d", gate.Kind)
	}
}

func (e *Engine) evaluateKeyed(ctx context.Context, key, owner string, claim bool, metadata map[string]string) (Result, error) {
	used, err := e.store.Exists(ctx, key)
	if err != nil {
		return Result{}, err
	}
	if used {
		return Result{Decision: AlreadyUsed, Key: key}, nil
	}
	if !claim {
		return Result{Decision: Allowed, Key: key}, nil
	}

	outcome, err := e.store.Claim(ctx, key, owner, metadata)
	if err != nil {
		return Result{}, err
	}
	if outcome == AlreadyClaimed {
		// Another caller won the race between our existence check and claim.
		return Result{Decision: AlreadyUsed, Key: key}, nil
	}
	return Result{Decision: Allowed, Key: key}, nil
}

func (e *Engine) evaluateCooldown(ctx context.Context, gate Gate, identity string, now time.Time, claim bool, metadata map[string]string) (Result, error) {
	last, err := e.store.LatestByOwner(ctx, identity)
	if err != nil {
		return Result{}, err
	}
	if last != nil {
		elapsed := int(now.Sub(last.ClaimedAt).Hours() / 24)
		if elapsed < gate.WindowDays {
			return Result{
				Decision:      AlreadyUsed,
				Key:           identity,
				RemainingDays: gate.WindowDays - elapsed,
			}, nil
		}
	}
	if claim {
		// Check-then-insert with no conditional write: two concurrent claims
		// inside the window can both land. The backing store keeps every
		// record, so recency stays correct afterwards.
		if err := e.store.Insert(ctx, identity, metadata); err != nil {
			return Result{}, err
		}
	}
	return Result{Decision: Allowed, Key: identity}, nil
}
