package gates

import "errors"

var (
	// ErrNoIdentity means the identity provider completed but returned no usable id.
	ErrNoIdentity = errors.New("identity provider returned no usable id")

	// ErrUnavailable is a transient store/network failure. Callers must treat it as
	// "action not allowed" (fail-closed); it is safe to retry.
	ErrUnavailable = errors.New("gate store unavailable")

	// ErrPermissionDenied means the principal may not read/write the gate record.
	// This is a configuration/ACL problem, not a business outcome, and should be
	// logged distinctly from AlreadyUsed.
	ErrPermissionDenied = errors.New("gate store permission denied")
)
