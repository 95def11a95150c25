package grf

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Source abstracts a byte-range read capability. It is the sole coupling
// between the archive core and any storage backend: a local file, an
// in-memory blob, or a remote range-fetchable object.
//
// ReadAt must return exactly n bytes at absolute offset off, or an error.
// A short read is always an error, never a partial success. Two concurrent
// calls on the same Source may be issued by callers; implementations must
// either serialize internally or support genuinely parallel positional
// reads.
type Source interface {
	ReadAt(ctx context.Context, off int64, n int) ([]byte, error)

	// Size returns the total number of addressable bytes, or -1 if unknown.
	Size() int64
}

// ErrShortRead is wrapped into the returned error whenever a Source cannot
// satisfy a read in full.
var ErrShortRead = fmt.Errorf("grf: short read (unexpected end of input)")

// FileSource is a Source backed by an *os.File.
type FileSource struct {
	f    *os.File
	size int64
}

// OpenFile opens name and returns a FileSource. The caller must Close it.
func OpenFile(name string) (*FileSource, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileSource{f: f, size: fi.Size()}, nil
}

// NewFileSource wraps an already-open *os.File.
func NewFileSource(f *os.File) (*FileSource, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return &FileSource{f: f, size: fi.Size()}, nil
}

func (s *FileSource) Size() int64 { return s.size }

func (s *FileSource) ReadAt(ctx context.Context, off int64, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(io.NewSectionReader(s.f, off, int64(n)), buf); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, fmt.Errorf("%w: at offset %d, wanted %d bytes", ErrShortRead, off, n)
		}
		return nil, err
	}
	return buf, nil
}

// Close closes the underlying file.
func (s *FileSource) Close() error { return s.f.Close() }

// MemorySource is a Source backed by an in-memory byte slice. It performs
// no copying on construction; callers must not mutate data afterwards.
type MemorySource struct {
	data []byte
}

// NewMemorySource wraps data as a Source.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{data: data}
}

func (s *MemorySource) Size() int64 { return int64(len(s.data)) }

func (s *MemorySource) ReadAt(ctx context.Context, off int64, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if off < 0 || n < 0 || off+int64(n) > int64(len(s.data)) {
		return nil, fmt.Errorf("%w: at offset %d, wanted %d bytes, have %d", ErrShortRead, off, n, len(s.data))
	}
	out := make([]byte, n)
	copy(out, s.data[off:off+int64(n)])
	return out, nil
}

// RangeSource adapts any io.ReaderAt (e.g. an HTTP range-GET client) into a
// Source, for remote or otherwise non-local backing stores.
type RangeSource struct {
	r    io.ReaderAt
	size int64
}

// NewRangeSource wraps r, an io.ReaderAt of the given total size (pass -1
// if unknown).
func NewRangeSource(r io.ReaderAt, size int64) *RangeSource {
	return &RangeSource{r: r, size: size}
}

func (s *RangeSource) Size() int64 { return s.size }

func (s *RangeSource) ReadAt(ctx context.Context, off int64, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if got, err := s.r.ReadAt(buf, off); err != nil {
		if err == io.EOF && got == n {
			// io.ReaderAt may report EOF alongside a full read at the end of input.
			return buf, nil
		}
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, fmt.Errorf("%w: at offset %d, wanted %d bytes", ErrShortRead, off, n)
		}
		return nil, err
	}
	return buf, nil
}
