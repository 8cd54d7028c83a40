package telemetry

import (
	"github.com/armon/go-metrics"
)

const (
	lockMintMetricsPrefix    = "lockmint"
	burnReleaseMetricsPrefix = "burnrelease"
)

func UpdateDepositsObservedCounter(asset string, cnt int) {
	metrics.IncrCounter([]string{lockMintMetricsPrefix, "deposits_observed_counter", asset}, float32(cnt))
}

func UpdateDepositsConfirmedCounter(asset string, cnt int) {
	metrics.IncrCounter([]string{lockMintMetricsPrefix, "deposits_confirmed_counter", asset}, float32(cnt))
}

func UpdateMintsSubmittedCounter(asset string, cnt int) {
	metrics.IncrCounter([]string{lockMintMetricsPrefix, "mints_submitted_counter", asset}, float32(cnt))
}

func UpdateMintsMintedCounter(asset string, cnt int) {
	metrics.IncrCounter([]string{lockMintMetricsPrefix, "mints_minted_counter", asset}, float32(cnt))
}

func UpdateMintsIgnoredCounter(asset string, cnt int) {
	metrics.IncrCounter([]string{lockMintMetricsPrefix, "mints_ignored_counter", asset}, float32(cnt))
}

func UpdateBurnsSubmittedCounter(asset string, cnt int) {
	metrics.IncrCounter([]string{burnReleaseMetricsPrefix, "burns_submitted_counter", asset}, float32(cnt))
}

func UpdateBurnsReleasedCounter(asset string, cnt int) {
	metrics.IncrCounter([]string{burnReleaseMetricsPrefix, "burns_released_counter", asset}, float32(cnt))
}

func UpdateSessionEndGauge(asset string, endAtUnix int64) {
	metrics.SetGauge([]string{lockMintMetricsPrefix, "session_end_high", asset}, float32(endAtUnix>>32))
	metrics.SetGauge([]string{lockMintMetricsPrefix, "session_end_low", asset}, float32(uint32(endAtUnix))) //nolint:gosec
}
