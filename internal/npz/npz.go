// Package npz reads and writes NumPy .npz archives of float32 arrays: a zip
// file whose members are .npy v1.0 files named after the arrays.
package npz

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/ndarray"
)

const (
	npyMagic     = "\x93NUMPY"
	npyAlignment = 64
	descrFloat32 = "<f4"
)

// ErrFormat is returned for members that are not little-endian float32
// C-ordered .npy v1/v2 data.
var ErrFormat = errors.New("unsupported npy data")

// Array is a named archive member.
type Array struct {
	Name string
	ndarray.Float32Array
}

// Write stores arrays as deflated members of a new archive written to w.
func Write(w io.Writer, arrays ...Array) error {
	zw := zip.NewWriter(w)
	for _, a := range arrays {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: a.Name + ".npy", Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("create member %s: %w", a.Name, err)
		}
		if err := writeNPY(fw, a.Float32Array); err != nil {
			return fmt.Errorf("write member %s: %w", a.Name, err)
		}
	}
	return zw.Close()
}

// WriteFile writes an archive to path on fsys.
func WriteFile(fsys fsutil.FileSystem, name string, arrays ...Array) error {
	f, err := fsys.Create(name)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := Write(f, arrays...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read returns the arrays of the archive keyed by member name without the
// .npy suffix.
func Read(r io.ReaderAt, size int64) (map[string]ndarray.Float32Array, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	out := make(map[string]ndarray.Float32Array, len(zr.File))
	for _, f := range zr.File {
		name := strings.TrimSuffix(path.Base(f.Name), ".npy")
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open member %s: %w", f.Name, err)
		}
		a, err := readNPY(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read member %s: %w", f.Name, err)
		}
		out[name] = a
	}
	return out, nil
}

// ReadFile reads the archive at name on fsys.
func ReadFile(fsys fsutil.FileSystem, name string) (map[string]ndarray.Float32Array, error) {
	data, err := fsys.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return Read(bytes.NewReader(data), int64(len(data)))
}

func writeNPY(w io.Writer, a ndarray.Float32Array) error {
	if n := ndarray.Size(a.Shape); n != len(a.Data) {
		return fmt.Errorf("shape %v does not match %d elements", a.Shape, len(a.Data))
	}

	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }", descrFloat32, shapeTuple(a.Shape))
	// magic(6) + version(2) + length(2) + header + '\n' is padded to the alignment
	total := len(npyMagic) + 4 + len(header) + 1
	if pad := total % npyAlignment; pad != 0 {
		header += strings.Repeat(" ", npyAlignment-pad)
	}
	header += "\n"

	buf := make([]byte, 0, len(npyMagic)+4+len(header)+4*len(a.Data))
	buf = append(buf, npyMagic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	for _, v := range a.Data {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	_, err := w.Write(buf)
	return err
}

func shapeTuple(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

var (
	descrPattern   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	fortranPattern = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapePattern   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

func readNPY(r io.Reader) (ndarray.Float32Array, error) {
	prefix := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return ndarray.Float32Array{}, err
	}
	if string(prefix[:len(npyMagic)]) != npyMagic {
		return ndarray.Float32Array{}, fmt.Errorf("bad magic: %w", ErrFormat)
	}

	var headerLen int
	switch major := prefix[len(npyMagic)]; major {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return ndarray.Float32Array{}, err
		}
		headerLen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return ndarray.Float32Array{}, err
		}
		headerLen = int(n)
	default:
		return ndarray.Float32Array{}, fmt.Errorf("version %d: %w", major, ErrFormat)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return ndarray.Float32Array{}, err
	}

	shape, err := parseHeader(string(header))
	if err != nil {
		return ndarray.Float32Array{}, err
	}

	raw := make([]byte, 4*ndarray.Size(shape))
	if _, err := io.ReadFull(r, raw); err != nil {
		return ndarray.Float32Array{}, fmt.Errorf("read data: %w", err)
	}
	a := ndarray.New(shape...)
	for i := range a.Data {
		a.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return a, nil
}

func parseHeader(header string) ([]int, error) {
	m := descrPattern.FindStringSubmatch(header)
	if m == nil || m[1] != descrFloat32 {
		return nil, fmt.Errorf("descr %q: %w", header, ErrFormat)
	}
	m = fortranPattern.FindStringSubmatch(header)
	if m == nil || m[1] != "False" {
		return nil, fmt.Errorf("fortran order: %w", ErrFormat)
	}
	m = shapePattern.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("missing shape: %w", ErrFormat)
	}

	shape := []int{}
	for _, field := range strings.Split(m[1], ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		d, err := strconv.Atoi(field)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("shape dimension %q: %w", field, ErrFormat)
		}
		shape = append(shape, d)
	}
	return shape, nil
}
