package scan

import (
	"fmt"
	"log"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/monitoring"
	"github.com/ptychodus/ptycho/internal/settings"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func newTestSettings(t *testing.T) *Settings {
	t.Helper()
	return NewSettings(settings.NewRegistry(), nil)
}

func gridSettings(t *testing.T, nx, ny int) *Settings {
	t.Helper()
	s := newTestSettings(t)
	s.ExtentX.Set(nx)
	s.ExtentY.Set(ny)
	s.StepSizeXInMeters.Set(decimal.NewFromInt(1))
	s.StepSizeYInMeters.Set(decimal.NewFromInt(1))
	return s
}

func newMemFS() *fsutil.MemoryFileSystem {
	return fsutil.NewMemoryFileSystem()
}

func pt(x, y string) Point {
	return Point{X: decimal.RequireFromString(x), Y: decimal.RequireFromString(y)}
}

func collect(t *testing.T, g Generator) []Point {
	t.Helper()
	out := make([]Point, g.Len())
	for i := range out {
		p, err := g.At(i)
		if err != nil {
			t.Fatalf("At(%d): %v", i, err)
		}
		out[i] = p
	}
	return out
}

// captureLogs redirects monitoring output for the duration of the test.
func captureLogs(t *testing.T) func() []string {
	t.Helper()
	var mu sync.Mutex
	var lines []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })
	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), lines...)
	}
}
