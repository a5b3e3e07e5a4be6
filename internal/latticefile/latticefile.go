// Package latticefile reads and writes lattices in a plain text format:
//
//	X Y Z [T J]
//	<Z spins for x=0, y=0>
//	<Z spins for x=0, y=1>
//	...
//
// followed by X*Y rows of Z whitespace-separated spins (+1 or -1), x-major.
// Paths ending in ".zst" are transparently zstd-compressed.
package latticefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"ising/internal/core"
	"ising/pkg/sims/ising"
)

// ErrFormat reports malformed lattice text.
var ErrFormat = errors.New("latticefile: malformed lattice")

// Defaults supplies the temperature and coupling used when the header omits
// them.
type Defaults struct {
	Temperature float64
	Interaction float64
}

// Read parses a lattice from r.
func Read(r io.Reader, def Defaults) (*ising.Lattice, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	next := func() ([]string, bool) {
		for sc.Scan() {
			line++
			fields := strings.Fields(sc.Text())
			if len(fields) == 0 {
				continue
			}
			return fields, true
		}
		return nil, false
	}

	header, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing header", ErrFormat)
	}
	if len(header) != 3 && len(header) != 5 {
		return nil, fmt.Errorf("%w: line %d: header needs 3 or 5 fields, got %d", ErrFormat, line, len(header))
	}
	var dims core.Dims
	for i, dst := range []*int{&dims.X, &dims.Y, &dims.Z} {
		v, err := strconv.Atoi(header[i])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: dimension %q: %v", ErrFormat, line, header[i], err)
		}
		*dst = v
	}
	temperature, interaction := def.Temperature, def.Interaction
	if len(header) == 5 {
		var err error
		if temperature, err = strconv.ParseFloat(header[3], 64); err != nil {
			return nil, fmt.Errorf("%w: line %d: temperature %q: %v", ErrFormat, line, header[3], err)
		}
		if interaction, err = strconv.ParseFloat(header[4], 64); err != nil {
			return nil, fmt.Errorf("%w: line %d: interaction %q: %v", ErrFormat, line, header[4], err)
		}
	}

	l, err := ising.NewLattice(dims, temperature, interaction, nil)
	if err != nil {
		return nil, err
	}

	idx := 0
	for row := 0; row < dims.X*dims.Y; row++ {
		fields, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: expected %d spin rows, got %d", ErrFormat, dims.X*dims.Y, row)
		}
		if len(fields) != dims.Z {
			return nil, fmt.Errorf("%w: line %d: expected %d spins, got %d", ErrFormat, line, dims.Z, len(fields))
		}
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: spin %q: %v", ErrFormat, line, f, err)
			}
			if err := l.SetIndex(idx, ising.Spin(v)); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			idx++
		}
	}
	if extra, ok := next(); ok {
		return nil, fmt.Errorf("%w: line %d: unexpected trailing data %q", ErrFormat, line, strings.Join(extra, " "))
	}
	return l, sc.Err()
}

// Write serializes l including its temperature and coupling.
func Write(w io.Writer, l *ising.Lattice) error {
	bw := bufio.NewWriter(w)
	d := l.Dims()
	fmt.Fprintf(bw, "%d %d %d %s %s\n", d.X, d.Y, d.Z,
		strconv.FormatFloat(l.Temperature(), 'g', -1, 64),
		strconv.FormatFloat(l.Interaction(), 'g', -1, 64))
	spins := l.Spins()
	for row := 0; row < d.X*d.Y; row++ {
		for z, s := range spins[row*d.Z : (row+1)*d.Z] {
			if z > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(int(s)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func compressed(path string) bool { return strings.EqualFold(filepath.Ext(path), ".zst") }

// Load reads a lattice from path.
func Load(path string, def Defaults) (*ising.Lattice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}
	l, err := Read(r, def)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return l, nil
}

// Save writes l to path, creating parent directories as needed.
func Save(path string, l *ising.Lattice) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if !compressed(path) {
		if err := Write(f, l); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := Write(enc, l); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
