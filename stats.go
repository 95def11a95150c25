package grf

import "time"

// Stats reports counters accumulated while loading and serving an Archive.
type Stats struct {
	// TotalEntries is the number of records read from the central directory,
	// before any filtering.
	TotalEntries int

	// FileCount is the number of entries retained after skipping
	// directory sentinels and oversized entries.
	FileCount int

	// SkippedOversize counts entries dropped for exceeding
	// Options.MaxFileUncompressedBytes.
	SkippedOversize int

	// SkippedDirectory counts entries dropped for not having the is-file
	// type bit set.
	SkippedDirectory int

	// AmbiguousNames counts normalized-name buckets with more than one
	// candidate.
	AmbiguousNames int

	// BadNameCount counts retained entries whose decoded name contains the
	// Unicode replacement character or a C1 control character, a signal
	// that the chosen filename encoding mis-decoded that entry.
	BadNameCount int

	// ExtensionHistogram maps lowercase extension (no dot) to file count.
	ExtensionHistogram map[string]int

	// DetectedEncoding is the filename encoding actually used, whether
	// configured explicitly or chosen by auto-detection.
	DetectedEncoding string

	// CacheHits and CacheMisses count extraction-cache lookups.
	CacheHits   int64
	CacheMisses int64

	// LoadDuration is how long the most recent load/ReloadWithEncoding call
	// took to parse the header and central directory.
	LoadDuration time.Duration
}

func newStats(t *table, encoding string, loadDuration time.Duration) Stats {
	hist := make(map[string]int, len(t.stats.extensionHistogram))
	for k, v := range t.stats.extensionHistogram {
		hist[k] = v
	}
	return Stats{
		TotalEntries:       t.stats.totalEntries,
		FileCount:          len(t.entries),
		SkippedOversize:    t.stats.skippedOversize,
		SkippedDirectory:   t.stats.skippedDirectory,
		AmbiguousNames:     t.stats.ambiguousNames,
		BadNameCount:       t.stats.badNames,
		ExtensionHistogram: hist,
		DetectedEncoding:   encoding,
		LoadDuration:       loadDuration,
	}
}
