package gates

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
)

// coordPrecision is the number of decimal places kept when bucketing
// coordinates (~11m at 4 places), so near-identical pins for the same
// storefront collapse to one fingerprint.
const coordPrecision = 4

// Fingerprint derives a stable key for a physical place from its normalized
// address and coordinates. Address normalization happens upstream; this
// function only rounds and hashes.
func Fingerprint(normalizedAddress string, lat, lon float64) string {
	payload := "addr:" + normalizedAddress +
		"|lat:" + formatCoord(lat) +
		"|lng:" + formatCoord(lon)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func formatCoord(v float64) string {
	scale := math.Pow10(coordPrecision)
	return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', coordPrecision, 64)
}
