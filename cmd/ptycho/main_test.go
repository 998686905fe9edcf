package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/monitoring"
	"github.com/ptychodus/ptycho/internal/npz"
)

func runCommand(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })

	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"no args", nil, 2},
		{"unknown", []string{"bogus"}, 2},
		{"help", []string{"help"}, 0},
		{"version", []string{"version"}, 0},
		{"inspect without files", []string{"inspect"}, 2},
		{"catalog without path", []string{"catalog"}, 2},
		{"scan bad flag", []string{"scan", "-nope"}, 2},
		{"scan bad format", []string{"scan", "-formats", "gif"}, 2},
		{"scan bad transform", []string{"scan", "-transform", "+q+y"}, 2},
		{"scan bad units", []string{"scan", "-units", "furlong"}, 2},
		{"scan bad override", []string{"scan", "-set", "Nope.Entry=1"}, 2},
		{"simulate bad reconstructor", []string{"simulate", "-reconstructor", "Other"}, 2},
		{"simulate bad pixel size", []string{"simulate", "-pixel-size", "-1"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCommand(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCommand(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "ptycho dev")
}

func TestRun_ScanWritesOutputsAndRecords(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")

	code, stdout, stderr := runCommand(t, "scan",
		"-set", "Scan.ExtentX=3", "-set", "Scan.ExtentY=2",
		"-initializer", "Raster", "-transform", "-x+y",
		"-formats", "csv,png,html", "-out-dir", dir, "-name", "raster 3x2",
		"-catalog", db)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Raster scan: 6 points")
	assert.Contains(t, stdout, "µm")

	for _, name := range []string{"raster_3x2.csv", "raster_3x2.png", "raster_3x2.html"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}

	code, stdout, stderr = runCommand(t, "catalog", "-catalog", db, "-kind", "scans")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Scans (1)")
	assert.Contains(t, stdout, "-x+y")
	assert.NotContains(t, stdout, "Training datasets")
}

func TestRun_ScanFromCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "positions.csv")
	require.NoError(t, os.WriteFile(in, []byte("# y,x\n0,0\n1e-6,2e-6\n2e-6,4e-6\n"), 0o644))

	code, stdout, stderr := runCommand(t, "scan", "-in", in, "-out-dir", dir, "-name", "copy")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Custom scan: 3 points")
	assert.FileExists(t, filepath.Join(dir, "copy.csv"))
}

func TestRun_ScanFromMissingCSV(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := runCommand(t, "scan", "-in", filepath.Join(dir, "missing.csv"), "-out-dir", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no scan points")
}

func TestRun_SimulateInspectCatalog(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")

	code, stdout, stderr := runCommand(t, "simulate",
		"-set", "Scan.ExtentX=2", "-set", "Scan.ExtentY=2",
		"-reconstructor", "PtychoNN", "-out-dir", dir, "-catalog", db)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "PtychoNN: 4 samples")
	assert.Contains(t, stdout, "diffractionPatterns = float32[4 64 64]")
	assert.Contains(t, stdout, "objectPatches = float32[4 2 64 64]")

	archive := filepath.Join(dir, "training_data.npz")
	arrays, err := npz.ReadFile(fsutil.OSFileSystem{}, archive)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 64, 64}, arrays["diffractionPatterns"].Shape)

	code, stdout, stderr = runCommand(t, "inspect", archive)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "diffractionPatterns")
	assert.Contains(t, stdout, "objectPatches")

	code, stdout, stderr = runCommand(t, "catalog", "-catalog", db)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Scans (0)")
	assert.Contains(t, stdout, "Training datasets (1)")
	assert.Contains(t, stdout, "PtychoNN")
}

func TestRun_InspectMissingFile(t *testing.T) {
	code, _, stderr := runCommand(t, "inspect", filepath.Join(t.TempDir(), "none.npz"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "none.npz")
}

func TestParseFormats(t *testing.T) {
	got, err := parseFormats(" CSV, png,,csv ")
	require.NoError(t, err)
	assert.Equal(t, []string{"csv", "png"}, got)

	_, err = parseFormats("csv,gif")
	assert.ErrorIs(t, err, errUsage)
}

func TestSettingOverrides(t *testing.T) {
	var o settingOverrides
	require.NoError(t, o.Set("Scan.ExtentX=4"))
	assert.Error(t, o.Set("no-equals"))
	assert.Error(t, o.Set("=5"))
	assert.Equal(t, "Scan.ExtentX=4", o.String())
}
