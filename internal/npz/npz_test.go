package npz

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/ndarray"
)

func mustArray(t *testing.T, data []float32, shape ...int) ndarray.Float32Array {
	t.Helper()
	a, err := ndarray.FromData(data, shape...)
	require.NoError(t, err)
	return a
}

func TestWriteRead(t *testing.T) {
	patterns := mustArray(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, 2, 2, 2)
	patches := mustArray(t, []float32{-1.5, 0.25}, 1, 2, 1, 1)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf,
		Array{Name: "diffractionPatterns", Float32Array: patterns},
		Array{Name: "objectPatches", Float32Array: patches},
	))

	got, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, patterns, got["diffractionPatterns"])
	assert.Equal(t, patches, got["objectPatches"])
}

func TestMembersAreAlignedNPY(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Array{Name: "v", Float32Array: mustArray(t, []float32{1, 2, 3}, 3)}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "v.npy", zr.File[0].Name)
	assert.Equal(t, zip.Deflate, zr.File[0].Method)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	var member bytes.Buffer
	_, err = member.ReadFrom(rc)
	require.NoError(t, err)

	raw := member.Bytes()
	assert.Equal(t, "\x93NUMPY\x01\x00", string(raw[:8]))
	headerLen := int(raw[8]) | int(raw[9])<<8
	assert.Zero(t, (10+headerLen)%64, "data starts on a 64-byte boundary")
	header := string(raw[10 : 10+headerLen])
	assert.Contains(t, header, "'descr': '<f4'")
	assert.Contains(t, header, "'shape': (3,)")
	assert.Equal(t, byte('\n'), header[len(header)-1])
	assert.Len(t, raw, 10+headerLen+12)
}

func TestEmptyLeadingDimension(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Array{Name: "e", Float32Array: ndarray.New(0, 4, 4)}))

	got, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 4}, got["e"].Shape)
	assert.Empty(t, got["e"].Data)
}

func TestWriteRejectsBadShape(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Array{Name: "bad", Float32Array: ndarray.Float32Array{Shape: []int{2, 2}, Data: []float32{1}}})
	assert.Error(t, err)
}

func TestParseHeader(t *testing.T) {
	shape, err := parseHeader("{'descr': '<f4', 'fortran_order': False, 'shape': (5, 1, 3), }")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 1, 3}, shape)

	shape, err = parseHeader("{'descr': '<f4', 'fortran_order': False, 'shape': (), }")
	require.NoError(t, err)
	assert.Empty(t, shape)

	for _, h := range []string{
		"{'descr': '<f8', 'fortran_order': False, 'shape': (1,), }",
		"{'descr': '<f4', 'fortran_order': True, 'shape': (1,), }",
		"{'descr': '<f4', 'fortran_order': False}",
		"{'descr': '<f4', 'fortran_order': False, 'shape': (x,), }",
	} {
		_, err := parseHeader(h)
		assert.True(t, errors.Is(err, ErrFormat), h)
	}
}

func TestFileRoundTrip(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	a := mustArray(t, []float32{0.5, 1.5}, 2)

	require.NoError(t, WriteFile(fsys, "/out/train.npz", Array{Name: "a", Float32Array: a}))
	got, err := ReadFile(fsys, "/out/train.npz")
	require.NoError(t, err)
	assert.Equal(t, a, got["a"])

	_, err = ReadFile(fsys, "/out/missing.npz")
	assert.Error(t, err)

	fsys.ReadOnly = true
	assert.Error(t, WriteFile(fsys, "/out/denied.npz"))
}
