package leeloo

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// A dump is the sequence of intervals of a list, each written as its lower
// then upper bound, little-endian, using the width of T. There is no
// header: the number of intervals follows from the length.

// WriteTo writes the intervals of the list to w. Pending removals are not
// written, so the list should be aggregated first.
func (l *List[T]) WriteTo(w io.Writer) (int64, error) {
	size := recordWidth[T]()
	bw := bufio.NewWriter(w)
	buf := make([]byte, 2*size)

	var n int64
	for _, iv := range l.intervals {
		putUint(buf[:size], uint64(iv.lower))
		putUint(buf[size:], uint64(iv.upper))
		written, err := bw.Write(buf)
		n += int64(written)
		if err != nil {
			return n, errors.Wrap(err, "failed to write interval")
		}
	}
	if err := bw.Flush(); err != nil {
		return n, errors.Wrap(err, "failed to flush dump")
	}
	return n, nil
}

// ReadFrom replaces the content of the list with the dump read from r
// until EOF.
func (l *List[T]) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	n := int64(len(data))
	if err != nil {
		return n, errors.Wrap(err, "failed to read dump")
	}
	ivs, err := decodeIntervals[T](data)
	if err != nil {
		return n, err
	}
	l.intervals = ivs
	l.removed = l.removed[:0]
	l.cache = nil
	return n, nil
}

// DumpFile writes the list to path, replacing any existing file.
func (l *List[T]) DumpFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if _, err := l.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to dump to %s", path)
	}
	return f.Close()
}

// ReadFile replaces the content of the list with the dump stored at path.
func (l *List[T]) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	if _, err := l.ReadFrom(f); err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	return nil
}

// WriteCompressed writes the dump to w in snappy framing format.
func (l *List[T]) WriteCompressed(w io.Writer) error {
	sw := snappy.NewBufferedWriter(w)
	if _, err := l.WriteTo(sw); err != nil {
		sw.Close()
		return err
	}
	return errors.Wrap(sw.Close(), "failed to flush compressed dump")
}

// ReadCompressed reads a dump written by WriteCompressed.
func (l *List[T]) ReadCompressed(r io.Reader) error {
	_, err := l.ReadFrom(snappy.NewReader(r))
	return err
}

func decodeIntervals[T Unsigned](data []byte) ([]Interval[T], error) {
	size := recordWidth[T]()
	if len(data)%(2*size) != 0 {
		return nil, ErrInvalidDumpSize.New(len(data), 2*size)
	}
	ivs := make([]Interval[T], 0, len(data)/(2*size))
	for off := 0; off < len(data); off += 2 * size {
		lower := T(getUint(data[off : off+size]))
		upper := T(getUint(data[off+size : off+2*size]))
		if lower > upper {
			return nil, ErrInvalidDumpInterval.New(len(ivs), lower, upper)
		}
		ivs = append(ivs, MakeInterval(lower, upper))
	}
	return ivs, nil
}

func recordWidth[T Unsigned]() int {
	return bitsOf[T]() / 8
}

func putUint(b []byte, v uint64) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	default:
		binary.LittleEndian.PutUint64(b, v)
	}
}

func getUint(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}
