// Package trace implements the external trace source collaborator:
// something that yields one decoded instruction record per call, or
// signals end-of-stream. The scheduler core only depends on the Source
// interface; it never interprets a trace's wire format.
package trace

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Record is one decoded instruction as read from a trace, matching the
// field shapes of proc_inst_t in original_source/procsim.hpp.
type Record struct {
	Address uint64
	OpCode  int8
	Src     [2]int32
	Dest    int32
}

// Source yields decoded instructions on demand. Next returns
// (Record{}, false) once the stream is exhausted; that is a normal
// termination signal, never an error.
type Source interface {
	Next() (Record, bool)
}

// Reader decodes the classic procsim trace line format:
//
//	<hex-address> <op_code> <src1> <src2> <dest>
//
// one record per line, fields whitespace-separated, the address written
// in hexadecimal without a "0x" prefix (original_source/procsim.hpp's
// read_instruction contract). Blank lines are skipped.
type Reader struct {
	scanner *bufio.Scanner
	err     error
}

// NewReader wraps r as a Source.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next implements Source. Once a malformed line has set r.err, every
// subsequent call returns end-of-stream; callers should check Err after
// the loop that consumes Next returns false.
func (r *Reader) Next() (Record, bool) {
	if r.err != nil {
		return Record{}, false
	}

	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			r.err = errors.Wrapf(err, "trace: malformed record %q", line)
			return Record{}, false
		}
		return rec, true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = errors.Wrap(err, "trace: read failed")
	}
	return Record{}, false
}

// Err returns the first error encountered, if any. A clean end-of-stream
// leaves this nil.
func (r *Reader) Err() error {
	return r.err
}

func parseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return Record{}, errors.Errorf("expected 5 fields, got %d", len(fields))
	}

	addr, err := strconv.ParseUint(fields[0], 16, 64)
	if err != nil {
		return Record{}, errors.Wrap(err, "address")
	}

	op, err := strconv.ParseInt(fields[1], 10, 8)
	if err != nil {
		return Record{}, errors.Wrap(err, "op_code")
	}

	src0, err := strconv.ParseInt(fields[2], 10, 32)
	if err != nil {
		return Record{}, errors.Wrap(err, "src1")
	}

	src1, err := strconv.ParseInt(fields[3], 10, 32)
	if err != nil {
		return Record{}, errors.Wrap(err, "src2")
	}

	dest, err := strconv.ParseInt(fields[4], 10, 32)
	if err != nil {
		return Record{}, errors.Wrap(err, "dest")
	}

	return Record{
		Address: addr,
		OpCode:  int8(op),
		Src:     [2]int32{int32(src0), int32(src1)},
		Dest:    int32(dest),
	}, nil
}

// Open returns a Reader over path, or over os.Stdin when path is empty.
// The returned close function is always safe to call (it is a no-op for
// stdin).
func Open(path string) (*Reader, func() error, error) {
	if path == "" {
		return NewReader(os.Stdin), func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "trace: open %q", path)
	}
	return NewReader(f), f.Close, nil
}
