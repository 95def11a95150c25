package grf

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/icza/grf/internal/grfenc"
)

// FileInfo is the public, read-only view of one archive entry.
type FileInfo struct {
	Name           string
	CompressedSize int32
	RealSize       int32
	Encrypted      bool
}

// snapshot is the immutable state produced by one successful load. Archive
// swaps its snapshot pointer under rwmu so Reload can't race a concurrent
// reader.
type snapshot struct {
	version      uint32
	table        *table
	encoding     grfenc.Encoding
	loadDuration time.Duration
}

// Archive is the public entry point: a GRF container handle. Open/OpenSource
// return it un-loaded; call Load (or ReloadWithEncoding) before resolving or
// extracting anything.
type Archive struct {
	src     Source
	ownsSrc bool
	opts    Options
	pool    *bytePool
	cache   *extractionCache

	loadMu sync.Mutex // serializes Load against itself; load() itself does the snap swap under rwmu
	rwmu   sync.RWMutex
	snap   *snapshot
}

// Open opens the GRF archive at path and returns an un-loaded handle. Call
// Load before using it.
func Open(ctx context.Context, path string, opts ...Option) (*Archive, error) {
	fs, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	return newArchive(fs, true, opts...), nil
}

// OpenSource wraps an already-constructed Source (e.g. a MemorySource or
// RangeSource) in an un-loaded handle. The caller retains ownership of src
// and must close/release it themselves. Call Load before using it.
func OpenSource(ctx context.Context, src Source, opts ...Option) (*Archive, error) {
	return newArchive(src, false, opts...), nil
}

func newArchive(src Source, ownsSrc bool, opts ...Option) *Archive {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.applyDefaults()

	var pool *bytePool
	if o.UseBytePool {
		pool = defaultBytePool
	}

	return &Archive{
		src:     src,
		ownsSrc: ownsSrc,
		opts:    o,
		pool:    pool,
		cache:   newExtractionCache(o.CacheCapacity),
	}
}

// Load parses the header and central directory, transitioning the archive
// from un-loaded to loaded. It is idempotent: once a load has succeeded, a
// later call returns nil immediately without re-parsing; if the only prior
// attempt failed, a later call retries.
func (a *Archive) Load(ctx context.Context) error {
	a.loadMu.Lock()
	defer a.loadMu.Unlock()

	if a.current() != nil {
		return nil
	}
	return a.load(ctx, a.opts.FilenameEncoding.toGrfenc())
}

func (a *Archive) load(ctx context.Context, enc grfenc.Encoding) error {
	const op = "load"
	start := time.Now()

	h, err := parseHeader(ctx, a.src)
	if err != nil {
		return err
	}
	if uint64(h.fileCount) > uint64(a.opts.MaxEntries) {
		return newError(CodeLimitExceeded, op, nil, "declared_count", h.fileCount, "max_entries", a.opts.MaxEntries)
	}

	t, resolvedEnc, err := parseTable(ctx, a.src, h, a.opts, enc, a.pool)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	a.rwmu.Lock()
	a.snap = &snapshot{version: h.version, table: t, encoding: resolvedEnc, loadDuration: duration}
	a.rwmu.Unlock()

	logDebug(ctx, "grf: loaded archive", "version", formatHex(h.version), "file_count", len(t.entries))
	if t.stats.ambiguousNames > 0 || t.stats.badNames > 0 {
		logWarn(ctx, "grf: archive has suspect entries",
			"ambiguous_names", t.stats.ambiguousNames, "bad_names", t.stats.badNames)
	}
	return nil
}

// ReloadWithEncoding re-parses the central directory using an explicit
// filename encoding, replacing the live snapshot atomically. Existing
// FileInfo/name strings obtained before the call remain valid; they simply
// reflect the prior encoding choice. Unlike Load it always re-parses, even
// if the archive is already loaded.
func (a *Archive) ReloadWithEncoding(ctx context.Context, enc FilenameEncoding) error {
	a.loadMu.Lock()
	defer a.loadMu.Unlock()
	return a.load(ctx, enc.toGrfenc())
}

// Close releases the underlying Source if the Archive owns it (i.e. it was
// opened via Open rather than OpenSource).
func (a *Archive) Close() error {
	if !a.ownsSrc {
		return nil
	}
	if c, ok := a.src.(*FileSource); ok {
		return c.Close()
	}
	return nil
}

func (a *Archive) current() *snapshot {
	a.rwmu.RLock()
	defer a.rwmu.RUnlock()
	return a.snap
}

// requireLoaded returns the current snapshot, or a CodeNotLoaded error if
// Load hasn't succeeded yet.
func (a *Archive) requireLoaded(op string) (*snapshot, error) {
	snap := a.current()
	if snap == nil {
		return nil, newError(CodeNotLoaded, op, nil)
	}
	return snap, nil
}

// HasFile reports whether query resolves unambiguously to a file. It
// returns false, without error, if the archive hasn't been loaded yet.
func (a *Archive) HasFile(query string) bool {
	snap := a.current()
	if snap == nil {
		return false
	}
	r := snap.table.resolve(query)
	return r.entry != nil
}

// GetEntry returns metadata for query without extracting its payload.
func (a *Archive) GetEntry(query string) (FileInfo, error) {
	e, err := a.resolveEntry(query)
	if err != nil {
		return FileInfo{}, err
	}
	return fileInfoOf(e), nil
}

// GetFile extracts and returns the decoded payload for query, consulting
// and populating the extraction cache.
func (a *Archive) GetFile(ctx context.Context, query string) ([]byte, error) {
	snap, err := a.requireLoaded("get_file")
	if err != nil {
		return nil, err
	}
	e, err := a.resolveEntryIn(snap, query)
	if err != nil {
		return nil, err
	}

	if data, ok := a.cache.get(e.name); ok {
		return data, nil
	}

	data, err := extract(ctx, a.src, e, -1, a.pool)
	if err != nil {
		logWarn(ctx, "grf: extract failed", "entry", e.name, "error", err)
		return nil, err
	}
	a.cache.put(e.name, data)
	return data, nil
}

func (a *Archive) resolveEntry(query string) (*entry, error) {
	snap, err := a.requireLoaded("resolve")
	if err != nil {
		return nil, err
	}
	return a.resolveEntryIn(snap, query)
}

func (a *Archive) resolveEntryIn(snap *snapshot, query string) (*entry, error) {
	const op = "resolve"

	r := snap.table.resolve(query)
	switch {
	case r.entry != nil:
		return r.entry, nil
	case len(r.ambiguous) > 0:
		names := make([]string, 0, maxAmbiguousCandidates)
		for i, c := range r.ambiguous {
			if i >= maxAmbiguousCandidates {
				break
			}
			names = append(names, c.name)
		}
		return nil, newError(CodeAmbiguousPath, op, nil, "query", query, "candidates", names)
	default:
		return nil, newError(CodeFileNotFound, op, nil, "query", query)
	}
}

// ResolvePath resolves query to its canonical exact name, without
// extracting anything.
func (a *Archive) ResolvePath(query string) (string, error) {
	e, err := a.resolveEntry(query)
	if err != nil {
		return "", err
	}
	return e.name, nil
}

// Find returns names matching criteria, in archive order. It returns nil,
// without error, if the archive hasn't been loaded yet.
func (a *Archive) Find(criteria FindCriteria) []string {
	snap := a.current()
	if snap == nil {
		return nil
	}
	return snap.table.find(criteria)
}

// GetFilesByExtension returns all names with the given extension (no dot,
// case-insensitive), served directly from the extension index.
func (a *Archive) GetFilesByExtension(ext string) []string {
	return a.Find(FindCriteria{Extension: ext})
}

// ListExtensions returns every extension present in the archive. It returns
// nil, without error, if the archive hasn't been loaded yet.
func (a *Archive) ListExtensions() []string {
	snap := a.current()
	if snap == nil {
		return nil
	}
	out := make([]string, 0, len(snap.table.byExtension))
	for ext := range snap.table.byExtension {
		out = append(out, ext)
	}
	return out
}

// ListFiles returns every retained file name, in archive order. It returns
// nil, without error, if the archive hasn't been loaded yet.
func (a *Archive) ListFiles() []string {
	snap := a.current()
	if snap == nil {
		return nil
	}
	out := make([]string, 0, len(snap.table.entries))
	for _, e := range snap.table.entries {
		out = append(out, e.name)
	}
	return out
}

// GetStats returns a snapshot of accumulated counters, including live
// extraction-cache hit/miss totals. It returns the zero Stats if the
// archive hasn't been loaded yet.
func (a *Archive) GetStats() Stats {
	snap := a.current()
	if snap == nil {
		return Stats{}
	}
	s := newStats(snap.table, snap.encoding.String(), snap.loadDuration)
	s.CacheHits = a.cache.hits.Load()
	s.CacheMisses = a.cache.miss.Load()
	return s
}

// Version returns the parsed container version (0x200 or 0x300), or 0 if
// the archive hasn't been loaded yet. A mis-tagged v0x300 archive that
// parses under the v0x200 layout reports 0x200.
func (a *Archive) Version() uint32 {
	snap := a.current()
	if snap == nil {
		return 0
	}
	return snap.version
}

// GetDetectedEncoding returns the filename encoding in effect for the
// current snapshot, or "" if the archive hasn't been loaded yet.
func (a *Archive) GetDetectedEncoding() string {
	snap := a.current()
	if snap == nil {
		return ""
	}
	return snap.encoding.String()
}

// ClearCache empties the extraction cache without affecting loaded
// metadata.
func (a *Archive) ClearCache() {
	a.cache.clear()
}

// CompileNameRegexp is a convenience wrapper around regexp.Compile for
// building a FindCriteria.Regexp value.
func CompileNameRegexp(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("grf: invalid name pattern: %w", err)
	}
	return re, nil
}

func fileInfoOf(e *entry) FileInfo {
	return FileInfo{
		Name:           e.name,
		CompressedSize: e.compressedSize,
		RealSize:       e.realSize,
		Encrypted:      e.typ&0x06 != 0,
	}
}
