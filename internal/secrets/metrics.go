package secrets

import (
	"github.com/rcrowley/go-metrics"
)

var (
	sealCounter       = metrics.GetOrRegisterCounter("cipher.seal", nil)
	openCounter       = metrics.GetOrRegisterCounter("cipher.open", nil)
	openFailedCounter = metrics.GetOrRegisterCounter("cipher.open.failed", nil)
	rotateCounter     = metrics.GetOrRegisterCounter("keyring.rotate", nil)
)

// CipherStats is a snapshot of the cipher operation counters since process start.
type CipherStats struct {
	Sealed       int64 `json:"sealed"`
	Opened       int64 `json:"opened"`
	OpenFailures int64 `json:"open_failures"`
	KeyRotations int64 `json:"key_rotations"`
}

// Stats returns the current cipher counters.
func Stats() CipherStats {
	return CipherStats{
		Sealed:       sealCounter.Count(),
		Opened:       openCounter.Count(),
		OpenFailures: openFailedCounter.Count(),
		KeyRotations: rotateCounter.Count(),
	}
}
