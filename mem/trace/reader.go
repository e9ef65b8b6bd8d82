package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/csim/mem/cache"
)

// ErrMalformedRecord is wrapped by parse errors that are not about the op.
var ErrMalformedRecord = errors.New("malformed trace record")

// A Record is one memory access read from a trace.
type Record struct {
	Op      cache.Op
	Address uint32

	// Size is the number of bytes accessed. The cache model tracks whole
	// blocks, so it is carried along but not used.
	Size int

	// Line is the 1-based line number the record was read from.
	Line int
}

// A ParseError reports a trace line that cannot be turned into a Record.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MaxLineLength is the longest trace line the Reader accepts.
const MaxLineLength = 1 << 20

// A Reader reads records in the "op address size" text format, for example
// "l 0x1fffff50 1". Addresses are hexadecimal with or without 0x.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	offset  uint64
	size    uint64
}

// NewReader creates a Reader on r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)

	return &Reader{scanner: scanner}
}

// WithSize sets the length of the input in bytes, if it is known.
func (r *Reader) WithSize(size uint64) *Reader {
	r.size = size
	return r
}

// Size returns the length of the input in bytes, or 0 if it is unknown.
func (r *Reader) Size() uint64 {
	return r.size
}

// Offset returns the number of input bytes consumed so far.
func (r *Reader) Offset() uint64 {
	return r.offset
}

// Read returns the next record. It returns io.EOF when the input is
// exhausted and a *ParseError for a line it cannot parse.
func (r *Reader) Read() (Record, error) {
	for r.scanner.Scan() {
		r.line++
		r.advance(uint64(len(r.scanner.Bytes())) + 1)

		text := r.scanner.Text()
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		return r.parse(text, fields)
	}

	err := r.scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return Record{}, &ParseError{Line: r.line + 1, Err: err}
	}

	if err != nil {
		return Record{}, err
	}

	if r.size > 0 {
		r.offset = r.size
	}

	return Record{}, io.EOF
}

// advance moves the offset forward, never past a known size. The newline
// counted for the last line may not exist.
func (r *Reader) advance(n uint64) {
	r.offset += n
	if r.size > 0 && r.offset > r.size {
		r.offset = r.size
	}
}

func (r *Reader) parse(text string, fields []string) (Record, error) {
	fail := func(err error) (Record, error) {
		return Record{}, &ParseError{Line: r.line, Text: text, Err: err}
	}

	if len(fields) != 3 {
		return fail(fmt.Errorf("%w: expected 3 fields, got %d",
			ErrMalformedRecord, len(fields)))
	}

	op, err := cache.ParseOp(fields[0])
	if err != nil {
		return fail(err)
	}

	hex := strings.TrimPrefix(strings.ToLower(fields[1]), "0x")

	addr, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fail(fmt.Errorf("%w: bad address %q",
			ErrMalformedRecord, fields[1]))
	}

	size, err := strconv.Atoi(fields[2])
	if err != nil {
		return fail(fmt.Errorf("%w: bad size %q",
			ErrMalformedRecord, fields[2]))
	}

	return Record{
		Op:      op,
		Address: uint32(addr),
		Size:    size,
		Line:    r.line,
	}, nil
}

// readAll reads records until the end of input or the first error.
func readAll(r io.Reader) ([]Record, error) {
	reader := NewReader(r)
	records := []Record{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}

		if err != nil {
			return records, err
		}

		records = append(records, record)
	}
}
