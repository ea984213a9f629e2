package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Metrics collects decode and source usage metrics
type Metrics struct {
	mu sync.RWMutex

	// Decode metrics
	DecodeCountTotal    int64
	DecodeDurationNs    int64
	DecodeFailuresTotal int64
	UnknownCodesTotal   map[string]int64 // by slot category

	// Source read metrics
	SourceReadCountTotal  map[string]int64 // by storage mode
	SourceReadBytesTotal  map[string]int64 // by storage mode
	SourceReadDurationNs  map[string]int64 // by storage mode
	SourceReadErrorsTotal map[string]int64 // by storage mode

	// Cache metrics
	CacheHitsTotal   int64
	CacheMissesTotal int64

	// Library metrics
	LibraryScanDurationMs int64
	LibraryPresetsTotal   int64
	LibrarySkippedTotal   int64
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		UnknownCodesTotal:     make(map[string]int64),
		SourceReadCountTotal:  make(map[string]int64),
		SourceReadBytesTotal:  make(map[string]int64),
		SourceReadDurationNs:  make(map[string]int64),
		SourceReadErrorsTotal: make(map[string]int64),
	}
}

// RecordDecode records a full preset decode
func (m *Metrics) RecordDecode(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.DecodeFailuresTotal++
		return
	}

	m.DecodeCountTotal++
	m.DecodeDurationNs += duration.Nanoseconds()
}

// RecordUnknownCode records a model code that resolved to no known name
func (m *Metrics) RecordUnknownCode(category string, code uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UnknownCodesTotal[category]++

	log.Debug().
		Str("category", category).
		Str("code", fmt.Sprintf("0x%02x", code)).
		Int64("total_unknown", m.UnknownCodesTotal[category]).
		Msg("unknown model code")
}

// RecordSourceRead records a preset read from a storage backend
func (m *Metrics) RecordSourceRead(mode string, bytes int64, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.SourceReadErrorsTotal[mode]++
		return
	}

	m.SourceReadCountTotal[mode]++
	m.SourceReadBytesTotal[mode] += bytes
	m.SourceReadDurationNs[mode] += duration.Nanoseconds()

	log.Debug().
		Str("mode", mode).
		Int64("bytes", bytes).
		Dur("duration", duration).
		Msg("source read completed")
}

// RecordCacheOperation records cache hit/miss
func (m *Metrics) RecordCacheOperation(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hit {
		m.CacheHitsTotal++
	} else {
		m.CacheMissesTotal++
	}
}

// RecordLibraryScan records the outcome of a library directory scan
func (m *Metrics) RecordLibraryScan(presets, skipped int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LibraryScanDurationMs = duration.Milliseconds()
	m.LibraryPresetsTotal += int64(presets)
	m.LibrarySkippedTotal += int64(skipped)

	log.Info().
		Int("presets", presets).
		Int("skipped", skipped).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("library scan completed")
}

// GetPrometheusMetrics returns metrics in Prometheus format
func (m *Metrics) GetPrometheusMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metrics := make(map[string]interface{})

	metrics["h5e_decode_count_total"] = m.DecodeCountTotal
	metrics["h5e_decode_failures_total"] = m.DecodeFailuresTotal
	metrics["h5e_decode_seconds_total"] = float64(m.DecodeDurationNs) / 1e9

	for category, count := range m.UnknownCodesTotal {
		metrics["h5e_unknown_codes_total{category=\""+category+"\"}"] = count
	}

	var totalReadBytes, totalReadCount int64
	for mode, bytes := range m.SourceReadBytesTotal {
		totalReadBytes += bytes
		totalReadCount += m.SourceReadCountTotal[mode]

		metrics["h5e_source_read_bytes_total{mode=\""+mode+"\"}"] = bytes
		metrics["h5e_source_read_count_total{mode=\""+mode+"\"}"] = m.SourceReadCountTotal[mode]
	}
	for mode, count := range m.SourceReadErrorsTotal {
		metrics["h5e_source_read_errors_total{mode=\""+mode+"\"}"] = count
	}

	metrics["h5e_source_read_bytes_total"] = totalReadBytes
	metrics["h5e_source_read_count_total"] = totalReadCount
	metrics["h5e_cache_hits_total"] = m.CacheHitsTotal
	metrics["h5e_cache_misses_total"] = m.CacheMissesTotal
	metrics["h5e_library_presets_total"] = m.LibraryPresetsTotal
	metrics["h5e_library_skipped_total"] = m.LibrarySkippedTotal
	metrics["h5e_library_scan_ms"] = m.LibraryScanDurationMs

	return metrics
}

// LogSummary logs a summary of current metrics
func (m *Metrics) LogSummary() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var totalReadBytes, totalReadCount, totalUnknown int64
	for _, bytes := range m.SourceReadBytesTotal {
		totalReadBytes += bytes
	}
	for _, count := range m.SourceReadCountTotal {
		totalReadCount += count
	}
	for _, count := range m.UnknownCodesTotal {
		totalUnknown += count
	}

	cacheHitRate := float64(0)
	if m.CacheHitsTotal+m.CacheMissesTotal > 0 {
		cacheHitRate = float64(m.CacheHitsTotal) / float64(m.CacheHitsTotal+m.CacheMissesTotal)
	}

	log.Info().
		Int64("decodes", m.DecodeCountTotal).
		Int64("decode_failures", m.DecodeFailuresTotal).
		Int64("unknown_codes", totalUnknown).
		Int64("source_read_bytes", totalReadBytes).
		Int64("source_read_count", totalReadCount).
		Float64("cache_hit_rate", cacheHitRate).
		Int64("library_presets", m.LibraryPresetsTotal).
		Msg("metrics summary")
}

// Global metrics instance
var GlobalMetrics = NewMetrics()

// Convenience functions for global metrics
func RecordDecode(duration time.Duration, err error) {
	GlobalMetrics.RecordDecode(duration, err)
}

func RecordUnknownCode(category string, code uint8) {
	GlobalMetrics.RecordUnknownCode(category, code)
}

func RecordSourceRead(mode string, bytes int64, duration time.Duration, err error) {
	GlobalMetrics.RecordSourceRead(mode, bytes, duration, err)
}

func RecordCacheOperation(hit bool) {
	GlobalMetrics.RecordCacheOperation(hit)
}

func RecordLibraryScan(presets, skipped int, duration time.Duration) {
	GlobalMetrics.RecordLibraryScan(presets, skipped, duration)
}

func LogMetricsSummary() {
	GlobalMetrics.LogSummary()
}
