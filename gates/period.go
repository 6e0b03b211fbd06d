package gates

import (
	"fmt"
	"time"
)

// PeriodKey returns the "YYYY-MM" token that scopes a monthly gate.
// The year/month are taken in the timestamp's own location, so period
// boundaries follow the caller's calendar rather than a canonical UTC one.
func PeriodKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
