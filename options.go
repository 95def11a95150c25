package grf

import "github.com/icza/grf/internal/grfenc"

// FilenameEncoding selects how raw filename bytes in the central directory
// are decoded into Go strings.
type FilenameEncoding int

const (
	// EncodingAuto samples filenames and picks UTF-8 or CP949 automatically.
	EncodingAuto FilenameEncoding = iota
	EncodingUTF8
	EncodingCP949
	EncodingEUCKR
	EncodingLatin1
)

func (e FilenameEncoding) String() string {
	switch e {
	case EncodingAuto:
		return "auto"
	case EncodingUTF8:
		return "utf-8"
	case EncodingCP949:
		return "cp949"
	case EncodingEUCKR:
		return "euc-kr"
	case EncodingLatin1:
		return "latin-1"
	default:
		return "unknown"
	}
}

func (e FilenameEncoding) toGrfenc() grfenc.Encoding {
	switch e {
	case EncodingUTF8:
		return grfenc.UTF8
	case EncodingCP949:
		return grfenc.CP949
	case EncodingEUCKR:
		return grfenc.EUCKR
	case EncodingLatin1:
		return grfenc.Latin1
	default:
		return grfenc.Auto
	}
}

const (
	defaultAutoDetectThreshold      = 0.01
	defaultMaxFileUncompressedBytes = 256 << 20 // 256 MiB
	defaultMaxEntries               = 500000
	defaultCacheCapacity            = 50
)

// Options configures an Archive. The zero value is not valid; use
// DefaultOptions or Open, which applies defaults for every unset field.
type Options struct {
	// FilenameEncoding selects the filename decoder. Default: EncodingAuto.
	FilenameEncoding FilenameEncoding

	// AutoDetectThreshold is the maximum acceptable bad-character ratio for
	// UTF-8 before the detector falls back to comparing against CP949.
	// Default: 0.01.
	AutoDetectThreshold float64

	// MaxFileUncompressedBytes bounds a single entry's real_size; entries
	// above this ceiling are silently skipped during table parsing.
	// Default: 256 MiB.
	MaxFileUncompressedBytes int64

	// MaxEntries bounds the declared entry count; archives above this cap
	// fail to load with CodeLimitExceeded. Default: 500000.
	MaxEntries uint32

	// UseBytePool enables reuse of scratch read buffers via the package's
	// byte pool. Default: true.
	UseBytePool bool

	// CacheCapacity bounds the number of decoded entries kept in the LRU
	// extraction cache. Default: 50. A value <= 0 disables the cache.
	CacheCapacity int
}

// DefaultOptions returns the Options every Open call starts from.
func DefaultOptions() Options {
	return Options{
		FilenameEncoding:         EncodingAuto,
		AutoDetectThreshold:      defaultAutoDetectThreshold,
		MaxFileUncompressedBytes: defaultMaxFileUncompressedBytes,
		MaxEntries:               defaultMaxEntries,
		UseBytePool:              true,
		CacheCapacity:            defaultCacheCapacity,
	}
}

// applyDefaults fills in zero-valued fields after functional options have
// run. CacheCapacity is deliberately excluded: DefaultOptions already seeds
// it at 50, so the only way it can reach here as 0 is an explicit
// WithCacheCapacity(0) call, which must disable the cache rather than be
// silently reset back to the default.
func (o *Options) applyDefaults() {
	d := DefaultOptions()
	if o.AutoDetectThreshold <= 0 {
		o.AutoDetectThreshold = d.AutoDetectThreshold
	}
	if o.MaxFileUncompressedBytes <= 0 {
		o.MaxFileUncompressedBytes = d.MaxFileUncompressedBytes
	}
	if o.MaxEntries == 0 {
		o.MaxEntries = d.MaxEntries
	}
}

// Option mutates Options; used with Open.
type Option func(*Options)

// WithFilenameEncoding overrides the filename decoder.
func WithFilenameEncoding(enc FilenameEncoding) Option {
	return func(o *Options) { o.FilenameEncoding = enc }
}

// WithAutoDetectThreshold overrides the UTF-8 bad-character ratio cutoff.
func WithAutoDetectThreshold(threshold float64) Option {
	return func(o *Options) { o.AutoDetectThreshold = threshold }
}

// WithMaxFileUncompressedBytes overrides the per-entry uncompressed-size ceiling.
func WithMaxFileUncompressedBytes(n int64) Option {
	return func(o *Options) { o.MaxFileUncompressedBytes = n }
}

// WithMaxEntries overrides the declared-entry-count cap.
func WithMaxEntries(n uint32) Option {
	return func(o *Options) { o.MaxEntries = n }
}

// WithBytePool toggles use of the shared scratch-buffer pool.
func WithBytePool(enabled bool) Option {
	return func(o *Options) { o.UseBytePool = enabled }
}

// WithCacheCapacity overrides the LRU extraction cache size.
func WithCacheCapacity(n int) Option {
	return func(o *Options) { o.CacheCapacity = n }
}
